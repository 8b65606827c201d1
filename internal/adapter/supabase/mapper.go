package supabase

import "github.com/podscout/podscout/internal/domain"

func mapEpisode(r metadataRecord) domain.Episode {
	ep := domain.Episode{
		ID:          r.ID,
		Title:       r.Title,
		Author:      r.Author,
		Description: r.Description,
	}
	if r.YouTubeURL != nil {
		ep.SourceURL = *r.YouTubeURL
	}
	if r.Language != nil {
		ep.Language = *r.Language
	}
	return ep
}

func mapEpisodes(records []metadataRecord) []*domain.Episode {
	episodes := make([]*domain.Episode, 0, len(records))
	for _, r := range records {
		ep := mapEpisode(r)
		episodes = append(episodes, &ep)
	}
	return episodes
}
