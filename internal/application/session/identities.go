package session

import (
	"context"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
)

// identityIDs returns the ids sessions may be recorded under for userID: the id itself plus,
// when userID is a store id, the user's legacy Google subject.
func identityIDs(ctx context.Context, users ports.UserRepository, userID string) ([]string, error) {
	ids := []string{userID}
	if users == nil || !domain.IsValidID(userID) {
		return ids, nil
	}
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u != nil && u.GoogleSub != "" && u.GoogleSub != userID {
		ids = append(ids, u.GoogleSub)
	}
	return ids, nil
}
