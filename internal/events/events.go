package events

import "github.com/confreg/confreg/internal/models"

// OnStateChange is called after a registration changes lifecycle state,
// with the state it changed from. Delivery is best-effort: services call
// this if it's set and never wait on the consumer.
var OnStateChange func(reg *models.Registration, previous models.RegistrationState)
