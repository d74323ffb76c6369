package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/CoderRahul01/OrmeeHairs/api/middleware"
	"github.com/CoderRahul01/OrmeeHairs/internal/session"
	pkgerrors "github.com/CoderRahul01/OrmeeHairs/pkg/errors"
)

// SessionProvider resolves the session owned by a device.
type SessionProvider interface {
	Get(ctx context.Context, deviceID string) (*session.Session, error)
}

// SessionFromRequest loads the session of the device the Device middleware
// identified.
func SessionFromRequest(r *http.Request, sessions SessionProvider) (*session.Session, error) {
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable")
	}
	deviceID := middleware.DeviceIDFromContext(r.Context())
	if deviceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing device id").
			WithDetails(map[string]string{"header": middleware.DeviceIDHeader})
	}
	s, err := sessions.Get(r.Context(), deviceID)
	if err != nil {
		if errors.Is(err, session.ErrClosed) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "service is shutting down")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session")
	}
	return s, nil
}
