// Package gallery implements the display-side aggregation of submission
// listings. The server already upserts by handle, so a well-formed listing
// has one record per handle; grouping here is defensive and must behave the
// same whether or not duplicates actually occur.
package gallery

import (
	"sort"

	"github.com/plabs/showwall/models"
)

// Group folds a flat, possibly handle-duplicated listing into one record per
// social handle, then orders groups newest-first.
//
// The fold is order-sensitive: images concatenate in input order, the group
// keeps the first-seen record's identity (id, name), and a strictly later
// CreatedAt from a duplicate replaces the group's CreatedAt. Grouping an
// already-grouped listing is a no-op up to the final sort.
func Group(subs []models.Submission) []models.Submission {
	groups := make([]models.Submission, 0, len(subs))
	index := make(map[string]int, len(subs))

	for _, sub := range subs {
		if i, ok := index[sub.SocialHandle]; ok {
			groups[i].Images = append(groups[i].Images, sub.Images...)
			if sub.CreatedAt.After(groups[i].CreatedAt) {
				groups[i].CreatedAt = sub.CreatedAt
			}
			continue
		}
		group := sub
		group.Images = append(models.ImageList{}, sub.Images...)
		index[sub.SocialHandle] = len(groups)
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreatedAt.After(groups[j].CreatedAt)
	})
	return groups
}
