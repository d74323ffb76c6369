package instance

import "github.com/CoderRahul01/OrmeeHairs/pkg/env"

// GetID identifies the running process in logs and cron lock ownership.
func GetID() string {
	if id := env.First("ORMEE_INSTANCE_ID", "DYNO", "HOSTNAME"); id != "" {
		return id
	}
	return "local"
}
