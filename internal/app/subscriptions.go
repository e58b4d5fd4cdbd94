package app

import (
	"github.com/citypulse/citypulse/internal/event_bus"
	"github.com/citypulse/citypulse/internal/metrics"
	log "github.com/sirupsen/logrus"
)

// SubscribeOverrideEvents logs and counts every override store mutation.
func SubscribeOverrideEvents(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.OverrideCustomAdded,
		func(e event_bus.EventT[event_bus.CustomEventAdded]) error {
			log.Infof("custom event added: %s (%s)", e.Data.ID, e.Data.Title)
			metrics.IncOverrideMutation("add")
			return nil
		})

	event_bus.SubscribeTyped(bus, event_bus.OverrideCustomUpdated,
		func(e event_bus.EventT[event_bus.CustomEventUpdated]) error {
			log.Infof("custom event updated: %s (%s)", e.Data.ID, e.Data.Title)
			metrics.IncOverrideMutation("update")
			return nil
		})

	event_bus.SubscribeTyped(bus, event_bus.OverrideCustomDeleted,
		func(e event_bus.EventT[event_bus.CustomEventDeleted]) error {
			log.Infof("custom event deleted: %s", e.Data.ID)
			metrics.IncOverrideMutation("delete")
			return nil
		})

	event_bus.SubscribeTyped(bus, event_bus.OverrideToggled,
		func(e event_bus.EventT[event_bus.EventToggled]) error {
			log.WithFields(log.Fields{
				"id":       e.Data.ID,
				"custom":   e.Data.Custom,
				"disabled": e.Data.Disabled,
			}).Info("event visibility changed")
			metrics.IncOverrideMutation("toggle")
			return nil
		})
}
