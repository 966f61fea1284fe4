package relations

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func work(slug, category string, contributors ...string) SimpleWork {
	if contributors == nil {
		contributors = []string{}
	}
	return SimpleWork{Slug: slug, Category: category, ContributorSlugs: contributors}
}

func slugsOf(ws []SimpleWork) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Slug)
	}
	return out
}

func TestBuild_Empty(t *testing.T) {
	idx := Build(nil)
	require.NotNil(t, idx.ProjectToClips)
	require.NotNil(t, idx.ClipToProjects)
	assert.Empty(t, idx.ProjectToClips)
	assert.Empty(t, idx.ClipToProjects)
}

func TestBuild_Example(t *testing.T) {
	works := []SimpleWork{
		work("song-a", "Album", "art1"),
		work("clip-a", "Clip", "art1"),
		work("clip-b", "Music Video", "art2"),
	}

	idx := Build(works)

	got := map[string][]string{}
	for k, v := range idx.ProjectToClips {
		got[k] = slugsOf(v)
	}
	if diff := cmp.Diff(map[string][]string{"song-a": {"clip-a"}}, got); diff != "" {
		t.Errorf("ProjectToClips mismatch (-want +got):\n%s", diff)
	}

	got = map[string][]string{}
	for k, v := range idx.ClipToProjects {
		got[k] = slugsOf(v)
	}
	if diff := cmp.Diff(map[string][]string{"clip-a": {"song-a"}}, got); diff != "" {
		t.Errorf("ClipToProjects mismatch (-want +got):\n%s", diff)
	}

	_, ok := idx.ClipToProjects["clip-b"]
	assert.False(t, ok, "clip without shared contributor must not be a key")
	assert.Empty(t, idx.Related("clip-b"))
	assert.Equal(t, []string{"clip-a"}, slugsOf(idx.Related("song-a")))
	assert.Equal(t, []string{"song-a"}, slugsOf(idx.Related("clip-a")))
}

func TestBuild_Bidirectional(t *testing.T) {
	works := []SimpleWork{
		work("p1", "Album", "a", "b"),
		work("p2", "Single", "c"),
		work("c1", "Clip", "b"),
		work("c2", "Clip", "c", "a"),
		work("c3", "Clip"),
	}
	idx := Build(works)

	for _, p := range works {
		for _, c := range works {
			if p.IsClip() || !c.IsClip() {
				continue
			}
			shared := intersects(p.ContributorSlugs, toSet(c.ContributorSlugs))
			assert.Equal(t, shared, containsSlug(idx.ProjectToClips[p.Slug], c.Slug), "%s -> %s", p.Slug, c.Slug)
			assert.Equal(t, shared, containsSlug(idx.ClipToProjects[c.Slug], p.Slug), "%s -> %s", c.Slug, p.Slug)
		}
	}

	assert.Equal(t, []string{"c1", "c2"}, slugsOf(idx.ProjectToClips["p1"]))
	assert.Equal(t, []string{"p1", "p2"}, slugsOf(idx.ClipToProjects["c2"]))
}

func TestBuild_NoDuplicates(t *testing.T) {
	works := []SimpleWork{
		work("p1", "Album", "a", "b"),
		work("c1", "Clip", "a", "b"),
		work("c1", "Clip", "a"),
	}
	idx := Build(works)
	assert.Equal(t, []string{"c1"}, slugsOf(idx.ProjectToClips["p1"]))
	assert.Equal(t, []string{"p1"}, slugsOf(idx.ClipToProjects["c1"]))
}

func TestBuild_NoSelfReference(t *testing.T) {
	works := []SimpleWork{
		work("same", "Album", "a"),
		work("same", "Clip", "a"),
	}
	idx := Build(works)

	for k, list := range idx.ProjectToClips {
		assert.False(t, containsSlug(list, k))
	}
	for k, list := range idx.ClipToProjects {
		assert.False(t, containsSlug(list, k))
	}
	assert.Empty(t, idx.ProjectToClips)
	assert.Empty(t, idx.ClipToProjects)
}

func TestBuild_ExclusiveRoles(t *testing.T) {
	works := []SimpleWork{
		work("p1", "Album", "a"),
		work("p2", "Album", "a"),
		work("c1", "Clip", "a"),
		work("c2", "video", "a"),
	}
	idx := Build(works)
	for k := range idx.ProjectToClips {
		_, both := idx.ClipToProjects[k]
		assert.False(t, both, "%s is both a project and a clip key", k)
	}
	// projects never link to projects, clips never to clips
	assert.Equal(t, []string{"c1", "c2"}, slugsOf(idx.ProjectToClips["p2"]))
	assert.Equal(t, []string{"p1", "p2"}, slugsOf(idx.ClipToProjects["c2"]))
}

func containsSlug(ws []SimpleWork, slug string) bool {
	for _, w := range ws {
		if w.Slug == slug {
			return true
		}
	}
	return false
}
