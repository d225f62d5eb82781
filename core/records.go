package core

import (
	"context"
	"errors"

	"estateadmin/logger"
	"estateadmin/models"
)

const (
	MasterPlanEndpoint = "properties"
	UnitsEndpoint      = "units"
	ProfilesEndpoint   = "profiles"
)

// ErrNoProfile is returned when the session carries no user id to look up.
var ErrNoProfile = errors.New("session has no profile id")

// PropertyDetail is one master-plan development with the units listed under it.
type PropertyDetail struct {
	Property models.Row   `json:"property"`
	Units    []models.Row `json:"units"`
}

// Record fetches a single entity of a screen's collection.
func (s *Store) Record(ctx context.Context, sess models.Session, screen Screen, id string) (models.Row, error) {
	return s.api.Get(ctx, sess, screen.Endpoint, id)
}

// Profile fetches the profile of the signed-in user.
func (s *Store) Profile(ctx context.Context, sess models.Session) (models.Row, error) {
	if sess.UserID == "" {
		return nil, ErrNoProfile
	}
	return s.api.Get(ctx, sess, ProfilesEndpoint, sess.UserID)
}

// PropertyDetail fetches a development. Its units arrive embedded in the record
// and are split out; entries that are not objects are skipped.
func (s *Store) PropertyDetail(ctx context.Context, sess models.Session, id string) (PropertyDetail, error) {
	row, err := s.api.Get(ctx, sess, MasterPlanEndpoint, id)
	if err != nil {
		return PropertyDetail{}, err
	}
	detail := PropertyDetail{Property: row, Units: []models.Row{}}
	if raw, ok := row["units"].([]any); ok {
		for _, u := range raw {
			if m, ok := u.(map[string]any); ok {
				detail.Units = append(detail.Units, models.Row(m))
			}
		}
	}
	delete(row, "units")
	return detail, nil
}

// AddUnit posts a unit for a development as JSON carrying property_id. Both the
// unit list and the master plan are refetched afterwards.
func (s *Store) AddUnit(ctx context.Context, sess models.Session, propertyID string, fields map[string]string) (MutationResult, error) {
	var res MutationResult
	err := s.form(sess.ID, UnitsEndpoint+":create:"+propertyID).Submit(ctx, func(ctx context.Context) error {
		payload := make(map[string]string, len(fields)+1)
		for k, v := range fields {
			payload[k] = v
		}
		payload["property_id"] = propertyID
		out, err := s.api.PostJSON(ctx, sess, UnitsEndpoint, payload)
		if err != nil {
			return err
		}
		res = mutationResult(out, "Unit added successfully.")
		return nil
	})
	switch {
	case err == nil:
		s.Invalidate(UnitsEndpoint)
		s.Invalidate(MasterPlanEndpoint)
		logger.Info("Store: unit added to property %s.", propertyID)
	case errors.Is(err, ErrBusy):
		logger.Debug("Store: unit for property %s rejected, form busy.", propertyID)
	default:
		logger.Error("Store: adding unit to property %s failed: %v", propertyID, err)
	}
	return res, err
}
