package services

import (
	"strings"

	"github.com/vsinha/bidengine/pkg/domain/entities"
)

// FindClient returns the first client whose name appears in the RFP's client
// text, case-insensitive. Clients with blank names never match.
func FindClient(clients []*entities.Client, rfpClient string) *entities.Client {
	needle := strings.ToLower(rfpClient)
	if strings.TrimSpace(needle) == "" {
		return nil
	}
	for _, c := range clients {
		name := strings.ToLower(strings.TrimSpace(c.ClientName))
		if name == "" {
			continue
		}
		if strings.Contains(needle, name) {
			return c
		}
	}
	return nil
}
