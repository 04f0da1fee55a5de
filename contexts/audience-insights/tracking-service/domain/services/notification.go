package services

import (
	"fmt"

	"tracker/contexts/audience-insights/tracking-service/domain/entities"

	"gopkg.in/yaml.v3"
)

const (
	productionHost = "https://lemarche.inclusion.beta.gouv.fr"
	stagingHost    = "https://bitoubi-staging.cleverapps.io"
)

// actionLabels maps each notification-worthy action to its human-readable
// message. Membership in this map is the dispatch predicate.
var actionLabels = map[entities.Action]string{
	entities.ActionInscription:    "Inscription d'un nouvel utilisateur",
	entities.ActionListingNew:     "Publication nouvelle annonce",
	entities.ActionQuoteNew:       "Nouvelle demande de devis",
	entities.ActionMetricUserlink: "Nouvelle mise en relation",
}

// NotificationWorthy reports whether the action triggers an outbound mail.
func NotificationWorthy(action entities.Action) bool {
	_, ok := actionLabels[action]
	return ok
}

// ActionLabel returns the human-readable label for a notification-worthy
// action, or a generic fallback for anything else.
func ActionLabel(action entities.Action) string {
	if label, ok := actionLabels[action]; ok {
		return label
	}
	return "action"
}

// ComposeSubject builds the outbound subject line for an event.
func ComposeSubject(event entities.TrackingEvent) string {
	return fmt.Sprintf("C4 Notif: %s [%s]", ActionLabel(event.Action), event.Env)
}

// ComposeBody builds the outbound message text. Inscription and new-listing
// events carry a deep link to the matching admin edit page; every other
// worthy action ships the raw meta dump only.
func ComposeBody(event entities.TrackingEvent) string {
	label, ok := actionLabels[event.Action]
	if !ok {
		label = "(erreur message type)"
	}
	dump := metaDump(event.Meta)

	switch event.Action {
	case entities.ActionInscription:
		link := adminUserLink(event.MetaID(), event.Env)
		return fmt.Sprintf("Notification C4:\n\n%s\n\n---\n%s---\n\n%s", label, dump, link)
	case entities.ActionListingNew:
		link := adminListingLink(event.MetaID(), event.Env)
		return fmt.Sprintf("Notification C4:\n\n%s\n\n---\n%s---\n\n%s", label, dump, link)
	default:
		return fmt.Sprintf("Notification C4:\n\n%s\n\n---\n%s", label, dump)
	}
}

func metaDump(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	out, err := yaml.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(out)
}

func adminUserLink(userID, env string) string {
	return fmt.Sprintf("%s/admin/user/%s/edit", envHost(env), userID)
}

func adminListingLink(listingID, env string) string {
	return fmt.Sprintf("%s/admin/listing/%s/edit", envHost(env), listingID)
}

func envHost(env string) string {
	if env == "staging" {
		return stagingHost
	}
	return productionHost
}
