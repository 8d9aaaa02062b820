package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vsinha/bidengine/pkg/application/dto"
	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/infrastructure/repositories/jsonfile"
)

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// listRFPs returns RFP summaries; ?active=true hides archived ones
func (s *Server) listRFPs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	rfps, err := s.engine.List(ctx)
	if err != nil {
		return s.engineError(c, "", err)
	}
	if c.QueryParam("active") == "true" {
		active := rfps[:0]
		for _, rfp := range rfps {
			if rfp.IsActive() {
				active = append(active, rfp)
			}
		}
		rfps = active
	}
	return c.JSON(http.StatusOK, dto.SummarizeRFPs(rfps))
}

func (s *Server) getRFP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id := c.Param("id")
	rfp, err := s.engine.Get(ctx, id)
	if err != nil {
		return s.engineError(c, id, err)
	}
	return c.JSON(http.StatusOK, rfp)
}

// ingestRFPs accepts one RFP object or an array of them
func (s *Server) ingestRFPs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	rfps, err := jsonfile.ReadRFPs(c.Request().Body)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := s.engine.Ingest(ctx, rfps); err != nil {
		return s.engineError(c, "", err)
	}

	stored := make([]*entities.RFP, 0, len(rfps))
	for _, rfp := range rfps {
		got, err := s.engine.Get(ctx, rfp.ID)
		if err != nil {
			return s.engineError(c, rfp.ID, err)
		}
		stored = append(stored, got)
	}
	return c.JSON(http.StatusCreated, dto.SummarizeRFPs(stored))
}

func (s *Server) processRFP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id := c.Param("id")
	bid, err := s.engine.Process(ctx, id)
	if err != nil {
		return s.engineError(c, id, err)
	}
	return c.JSON(http.StatusOK, bid)
}

func (s *Server) archiveRFP(c echo.Context) error {
	return s.setArchived(c, true)
}

func (s *Server) restoreRFP(c echo.Context) error {
	return s.setArchived(c, false)
}

func (s *Server) setArchived(c echo.Context, archived bool) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id := c.Param("id")
	var err error
	if archived {
		err = s.engine.Archive(ctx, id)
	} else {
		err = s.engine.Restore(ctx, id)
	}
	if err != nil {
		return s.engineError(c, id, err)
	}

	rfp, err := s.engine.Get(ctx, id)
	if err != nil {
		return s.engineError(c, id, err)
	}
	return c.JSON(http.StatusOK, dto.SummarizeRFP(rfp))
}

func (s *Server) listPriorities(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	entries, err := s.engine.Priorities(ctx)
	if err != nil {
		return s.engineError(c, "", err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) recomputePriorities(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	entries, err := s.engine.Rerank(ctx)
	if err != nil {
		return s.engineError(c, "", err)
	}
	return c.JSON(http.StatusOK, entries)
}
