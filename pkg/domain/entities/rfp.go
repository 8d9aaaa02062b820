package entities

import (
	"fmt"
	"strings"
	"time"
)

// NotSpecified is the wildcard value extraction emits for an absent requirement
const NotSpecified = "NOT SPECIFIED"

// Requirement names understood by the spec matcher
const (
	ReqVoltageGrade      = "voltage_grade"
	ReqCoreCount         = "core_count"
	ReqCrossSection      = "cross_section_sqmm"
	ReqConductorMaterial = "conductor_material"
	ReqInsulation        = "insulation"
	ReqSheath            = "sheath"
	ReqArmourType        = "armour_type"
	ReqStandards         = "standards"
)

// Requirements maps a requirement name to the value requested by the RFP
type Requirements map[string]any

// Clone returns a shallow copy of the requirement map
func (r Requirements) Clone() Requirements {
	if r == nil {
		return nil
	}
	c := make(Requirements, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Coordinates is a WGS84 point
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// RFPLineItem is one lot of an RFP as produced by the extraction stage
type RFPLineItem struct {
	LotID          string       `json:"lot_id" validate:"required"`
	RawDescription string       `json:"raw_description"`
	Quantity       float64      `json:"quantity" validate:"gte=0"`
	Unit           string       `json:"unit,omitempty"`
	Requirements   Requirements `json:"technical_attributes"`
}

// RFP is a request for proposal together with the outputs derived from it
type RFP struct {
	ID                  string        `json:"id" validate:"required"`
	Title               string        `json:"title,omitempty"`
	ClientName          string        `json:"client_name"`
	DeliveryLocation    string        `json:"delivery_location"`
	DeliveryCoordinates *Coordinates  `json:"delivery_coordinates,omitempty" validate:"omitempty"`
	DistanceKm          float64       `json:"distance_from_factory_km,omitempty" validate:"gte=0"`
	SubmissionDeadline  *time.Time    `json:"submission_deadline,omitempty"`
	PaymentTerms        string        `json:"payment_terms,omitempty"`
	LineItems           []RFPLineItem `json:"line_items" validate:"dive"`
	Archived            bool          `json:"is_archived"`

	Match    *MatchReport    `json:"match,omitempty"`
	Bid      *BidComputation `json:"bid,omitempty"`
	Priority *PriorityEntry  `json:"priority,omitempty"`
}

// NewRFP creates a validated RFP with the given line items
func NewRFP(id, clientName string, items []RFPLineItem) (*RFP, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("rfp id cannot be empty")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("rfp %s must have at least one line item", id)
	}
	for i, item := range items {
		if item.LotID == "" {
			return nil, fmt.Errorf("line item %d: lot id cannot be empty", i+1)
		}
		if item.Quantity < 0 {
			return nil, fmt.Errorf("line item %s: quantity cannot be negative, got %v", item.LotID, item.Quantity)
		}
	}

	return &RFP{
		ID:         id,
		ClientName: clientName,
		LineItems:  items,
	}, nil
}

// IsActive reports whether the RFP takes part in ranking
func (r *RFP) IsActive() bool {
	return !r.Archived
}

// Clone returns a copy that can be mutated without affecting the receiver
func (r *RFP) Clone() *RFP {
	if r == nil {
		return nil
	}

	c := *r
	if r.DeliveryCoordinates != nil {
		coords := *r.DeliveryCoordinates
		c.DeliveryCoordinates = &coords
	}
	if r.SubmissionDeadline != nil {
		deadline := *r.SubmissionDeadline
		c.SubmissionDeadline = &deadline
	}

	c.LineItems = make([]RFPLineItem, len(r.LineItems))
	for i, item := range r.LineItems {
		item.Requirements = item.Requirements.Clone()
		c.LineItems[i] = item
	}

	c.Match = r.Match.Clone()
	c.Bid = r.Bid.Clone()
	if r.Priority != nil {
		p := *r.Priority
		c.Priority = &p
	}
	return &c
}
