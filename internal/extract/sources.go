package extract

import "github.com/norwich-event-hub/scraper/internal/fetch"

// Built-in Norwich listing sources. Selector tables track each site's current
// markup; when a site reskins, only its Rules entry changes.

func skiddle(client *fetch.Client) *Source {
	return NewSource(
		"skiddle",
		"https://www.skiddle.com/whats-on/Norwich/",
		Rules{
			Item:  "[class*=card-event]",
			Title: "[class*=card-title]",
			Venue: "[class*=card-venue]",
			Date:  "[class*=card-date]",
			Link:  "a",
		},
		Defaults{
			Time:     "22:00",
			Location: "Norwich city centre",
			Category: "Nightlife",
			Vibe:     "High energy",
			Crowd:    "Students and young professionals",
			BestFor:  "A big night out",
		},
		client,
	)
}

func norwichTheatre(client *fetch.Client) *Source {
	return NewSource(
		"norwich-theatre",
		"https://norwichtheatre.org/whats-on/",
		Rules{
			Item:  "[class*=show-card]",
			Title: "h3",
			Venue: "[class*=show-venue]",
			Date:  "[class*=show-dates]",
			Link:  "a",
		},
		Defaults{
			Time:     "19:30",
			Location: "Norwich Theatre Royal",
			Category: "Theatre",
			Vibe:     "A proper night at the theatre",
			Crowd:    "All ages",
			BestFor:  "Date night",
		},
		client,
	)
}

func norwichArtsCentre(client *fetch.Client) *Source {
	return NewSource(
		"norwich-arts-centre",
		"https://norwichartscentre.co.uk/events/",
		Rules{
			Item:  "[class*=event-listing]",
			Title: "[class*=event-title]",
			Venue: "[class*=event-venue]",
			Date:  "time",
			Time:  "[class*=event-time]",
			Link:  "a",
			Price: "[class*=event-price]",
		},
		Defaults{
			Time:     "20:00",
			Location: "Norwich Arts Centre, St Benedicts Street",
			Category: "Live Music",
			Vibe:     "Intimate and eclectic",
			Crowd:    "Music lovers",
			BestFor:  "Discovering something new",
		},
		client,
	)
}

func theWaterfront(client *fetch.Client) *Source {
	return NewSource(
		"waterfront",
		"https://waterfrontnorwich.com/events/",
		Rules{
			Item:  "[class*=gig-item]",
			Title: "h2",
			Date:  "[class*=gig-date]",
			Link:  "a",
			Price: "[class*=gig-price]",
		},
		Defaults{
			Time:     "19:00",
			Location: "The Waterfront, King Street",
			Category: "Gigs",
			Vibe:     "Loud and sweaty",
			Crowd:    "Gig-goers of every stripe",
			BestFor:  "Live bands",
		},
		client,
	)
}

func visitNorwich(client *fetch.Client) *Source {
	return NewSource(
		"visit-norwich",
		"https://www.visitnorwich.co.uk/whats-on/",
		Rules{
			Item:  "[class*=listing-card]",
			Title: "[class*=listing-title]",
			Venue: "[class*=listing-location]",
			Date:  "[class*=listing-date]",
			Link:  "a",
		},
		Defaults{
			Time:     "10:00",
			Location: "Norwich",
			Category: "Family & Days Out",
			Vibe:     "Relaxed",
			Crowd:    "Families and visitors",
			BestFor:  "A day out",
		},
		client,
	)
}

// DefaultSources returns the built-in sources in registration order. The
// order matters: the orchestrator breaks deduplication ties in favour of
// earlier-registered sources.
func DefaultSources(client *fetch.Client) []*Source {
	return []*Source{
		skiddle(client),
		norwichTheatre(client),
		norwichArtsCentre(client),
		theWaterfront(client),
		visitNorwich(client),
	}
}
