package content

import (
	"sort"
	"time"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
)

// ResolvePlaylist joins bindings to content items and produces the rendered
// playlist: active bindings whose schedule window covers now, ascending by
// order, mapped to their content items, dropping inactive or missing items.
func ResolvePlaylist(bindings []v1alpha1.Binding, items []v1alpha1.ContentItem, now time.Time) []v1alpha1.ContentItem {
	byID := make(map[string]v1alpha1.ContentItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	active := make([]v1alpha1.Binding, 0, len(bindings))
	for _, b := range bindings {
		if !b.Active || !b.InWindow(now) {
			continue
		}
		active = append(active, b)
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Order < active[j].Order
	})

	playlist := make([]v1alpha1.ContentItem, 0, len(active))
	for _, b := range active {
		item, ok := byID[b.ContentID]
		if !ok || !item.Active {
			continue
		}
		playlist = append(playlist, item)
	}
	return playlist
}
