package screens

import (
	"github.com/google/uuid"

	"github.com/herdup/herdup/internal/models"
)

// PlaceholderLogo is shown for organizations without a logo.
const PlaceholderLogo = "https://via.placeholder.com/100"

// Merge attaches lookup[key(rec)] to every primary record. Records without a match get nil.
// The input slice is not modified.
func Merge[T any, K comparable, V any, R any](primary []T, key func(T) K, lookup map[K]V, attach func(T, *V) R) []R {
	out := make([]R, 0, len(primary))
	for _, rec := range primary {
		if v, ok := lookup[key(rec)]; ok {
			out = append(out, attach(rec, &v))
			continue
		}
		out = append(out, attach(rec, nil))
	}
	return out
}

// EventCard is an event decorated with its organization's logo.
type EventCard struct {
	models.Event
	Logo *string `json:"org_logo"`
}

// AnnouncementCard is an announcement decorated with its organization's logo.
type AnnouncementCard struct {
	models.Announcement
	Logo *string `json:"org_logo"`
}

func logoIndex(logos []models.OrganizationLogo) map[uuid.UUID]*string {
	idx := make(map[uuid.UUID]*string, len(logos))
	for _, l := range logos {
		idx[l.ID] = l.Logo
	}
	return idx
}

func deref(v **string) *string {
	if v == nil {
		return nil
	}
	return *v
}

// EventsWithLogos joins events to organization logos on organization id.
func EventsWithLogos(events []models.Event, logos []models.OrganizationLogo) []EventCard {
	return Merge(events, func(e models.Event) uuid.UUID { return e.OrganizationID }, logoIndex(logos),
		func(e models.Event, logo **string) EventCard { return EventCard{Event: e, Logo: deref(logo)} })
}

// AnnouncementsWithLogos joins announcements to organization logos on organization id.
func AnnouncementsWithLogos(list []models.Announcement, logos []models.OrganizationLogo) []AnnouncementCard {
	return Merge(list, func(a models.Announcement) uuid.UUID { return a.OrganizationID }, logoIndex(logos),
		func(a models.Announcement, logo **string) AnnouncementCard {
			return AnnouncementCard{Announcement: a, Logo: deref(logo)}
		})
}

// LogoOrPlaceholder returns the logo URL to render.
func LogoOrPlaceholder(logo *string) string {
	if logo == nil || *logo == "" || *logo == "{}" {
		return PlaceholderLogo
	}
	return *logo
}
