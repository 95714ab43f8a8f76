// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/satyamraj1643/pine/internal/application/services"
	"github.com/satyamraj1643/pine/internal/domain/user"
	"github.com/satyamraj1643/pine/internal/infrastructure/email"
	"github.com/satyamraj1643/pine/internal/infrastructure/media"
	"github.com/satyamraj1643/pine/internal/infrastructure/messaging"
	"github.com/satyamraj1643/pine/internal/infrastructure/observability/logging"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	IdentityService *services.IdentityService

	// Infrastructure dependencies
	Users       user.Repository
	Email       email.Service
	Avatars     *media.AvatarProcessor
	Broadcaster *messaging.SessionBroadcaster
	Logger      *logging.ChanneledLogger
}

// NewContainer creates and wires all singleton services
func NewContainer(users user.Repository, emailSvc email.Service, avatars *media.AvatarProcessor, logger *logging.ChanneledLogger) *Container {
	broadcaster := messaging.NewSessionBroadcaster(logger)

	return &Container{
		IdentityService: services.NewIdentityService(users, emailSvc, avatars, logger),
		Users:           users,
		Email:           emailSvc,
		Avatars:         avatars,
		Broadcaster:     broadcaster,
		Logger:          logger,
	}
}
