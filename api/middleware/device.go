package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/CoderRahul01/OrmeeHairs/api/responses"
	pkgerrors "github.com/CoderRahul01/OrmeeHairs/pkg/errors"
	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
)

// DeviceIDHeader carries the opaque id the storefront generates per browser.
const DeviceIDHeader = "X-Device-Id"

var deviceIDRe = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// Device requires a well-formed X-Device-Id header and stores it in the context.
func Device(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := strings.TrimSpace(r.Header.Get(DeviceIDHeader))
			if !deviceIDRe.MatchString(deviceID) {
				err := pkgerrors.New(pkgerrors.CodeValidation, "missing or invalid device id").
					WithDetails(map[string]string{"header": DeviceIDHeader})
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			ctx := WithDeviceID(r.Context(), deviceID)
			if logg != nil {
				ctx = logg.WithDeviceID(ctx, deviceID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
