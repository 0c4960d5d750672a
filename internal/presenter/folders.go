package presenter

import (
	"github.com/mlag/feedra/internal/domain/feed"
)

// FolderGroup is one folder together with the feeds filed under it.
type FolderGroup struct {
	Folder feed.Folder
	Feeds  []feed.Feed
}

// FolderedFeeds is the sidebar tree: folders in their server order,
// each with its member feeds, plus the feeds filed under no folder.
type FolderedFeeds struct {
	Groups    []FolderGroup
	Ungrouped []feed.Feed
}

// GroupFeedsByFolder buckets feeds under their folders. Feeds keep
// their input order within each bucket; feeds pointing at an unknown
// folder fall into the ungrouped list.
func GroupFeedsByFolder(feeds []feed.Feed, folders []feed.Folder) FolderedFeeds {
	indexByFolder := make(map[string]int, len(folders))
	groups := make([]FolderGroup, len(folders))
	for i, folder := range folders {
		indexByFolder[folder.ID] = i
		groups[i] = FolderGroup{Folder: folder}
	}

	var ungrouped []feed.Feed
	for _, f := range feeds {
		if f.FolderID == nil {
			ungrouped = append(ungrouped, f)
			continue
		}
		idx, ok := indexByFolder[*f.FolderID]
		if !ok {
			ungrouped = append(ungrouped, f)
			continue
		}
		groups[idx].Feeds = append(groups[idx].Feeds, f)
	}

	return FolderedFeeds{Groups: groups, Ungrouped: ungrouped}
}
