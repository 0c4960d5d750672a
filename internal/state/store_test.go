package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlag/feedra/internal/domain/feed"
)

func TestStoreDispatchNotifiesListeners(t *testing.T) {
	st := NewStore()

	var seen []AppState
	st.Subscribe(func(s AppState) { seen = append(seen, s) })

	st.Dispatch(InitAppStart{})
	st.Dispatch(InitAppSuccess{Feeds: []feed.Feed{{ID: "1"}}})

	require.Len(t, seen, 2)
	assert.True(t, seen[0].LoadingFeeds)
	assert.False(t, seen[1].LoadingFeeds)
	assert.Len(t, seen[1].Feeds, 1)
	assert.Equal(t, st.State(), seen[1])
}

func TestStoreUnsubscribeStopsNotifications(t *testing.T) {
	st := NewStore()

	calls := 0
	unsubscribe := st.Subscribe(func(AppState) { calls++ })

	st.Dispatch(ToggleSidebar{})
	unsubscribe()
	st.Dispatch(ToggleSidebar{})

	assert.Equal(t, 1, calls)
}

func TestStoreInitialState(t *testing.T) {
	st := NewStore()
	s := st.State()

	assert.Equal(t, feed.AllArticlesID, s.SelectedFeedID)
	assert.True(t, s.LoadingFeeds)
	assert.True(t, s.LoadingFolders)
	assert.Equal(t, feed.SortDateDesc, s.SortOption)
	assert.Equal(t, feed.FilterAll, s.FilterOption)
	assert.Equal(t, ModalNone, s.Modal.Kind)
}
