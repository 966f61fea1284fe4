package relations

// RelationIndex links projects to clips and clips to projects through shared
// contributors. A slug is only present as a key when it has at least one
// relation.
type RelationIndex struct {
	ProjectToClips map[string][]SimpleWork `json:"project_to_clips"`
	ClipToProjects map[string][]SimpleWork `json:"clip_to_projects"`
}

// Related returns the works related to slug, whichever side it is on.
func (idx RelationIndex) Related(slug string) []SimpleWork {
	if ws, ok := idx.ProjectToClips[slug]; ok {
		return ws
	}
	return idx.ClipToProjects[slug]
}

// Build partitions works into clips and projects and links every pair that
// shares at least one contributor slug. Lists keep discovery order and hold
// each slug once.
//
// The pairwise scan is O(projects x clips); catalogs are small.
func Build(works []SimpleWork) RelationIndex {
	idx := RelationIndex{
		ProjectToClips: make(map[string][]SimpleWork),
		ClipToProjects: make(map[string][]SimpleWork),
	}

	var clips, projects []SimpleWork
	for _, w := range works {
		if w.IsClip() {
			clips = append(clips, w)
		} else {
			projects = append(projects, w)
		}
	}
	if len(clips) == 0 || len(projects) == 0 {
		return idx
	}

	clipSets := make([]map[string]struct{}, len(clips))
	for i, c := range clips {
		clipSets[i] = toSet(c.ContributorSlugs)
	}

	for _, p := range projects {
		for i, c := range clips {
			if p.Slug == c.Slug || !intersects(p.ContributorSlugs, clipSets[i]) {
				continue
			}
			idx.ProjectToClips[p.Slug] = appendUnique(idx.ProjectToClips[p.Slug], c)
			idx.ClipToProjects[c.Slug] = appendUnique(idx.ClipToProjects[c.Slug], p)
		}
	}
	return idx
}

func toSet(ss []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		m[s] = struct{}{}
	}
	return m
}

func intersects(ss []string, set map[string]struct{}) bool {
	for _, s := range ss {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}

func appendUnique(list []SimpleWork, w SimpleWork) []SimpleWork {
	for _, x := range list {
		if x.Slug == w.Slug {
			return list
		}
	}
	return append(list, w)
}
