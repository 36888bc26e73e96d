package handlers

import (
	"pedidos-api/live"
	"pedidos-api/storage"

	"github.com/sirupsen/logrus"
)

// Package-level collaborators, wired at startup. The hub may stay nil in
// tests that don't exercise live pushes.
var (
	Hub    *live.Hub
	Images *storage.Store
)

var log = logrus.StandardLogger()

// notifyOrderChanged tells live subscribers to re-derive their views.
// Fire-and-forget: a dropped signal is coalesced with the next one.
func notifyOrderChanged() {
	if Hub != nil {
		Hub.OrderChanged()
	}
}
