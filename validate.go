package bigspace

import "fmt"

// ValidateHierarchy classifies every BigSpace root against the archetype
// schema spec §6 assumes ("a diagnostic pass that classifies every entity
// against an allowed-archetype schema and logs violations"). It is a
// single callable diagnostic, never wired into Plugin.Tick automatically
// (spec §6: "optional... out of scope here beyond its existence").
//
// It reports one message per violation found; an empty result means the
// hierarchy under every BigSpace root is well-formed.
func ValidateHierarchy[T Coord, E comparable](s Store[T, E]) []string {
	var problems []string
	for _, root := range s.BigSpaces() {
		if _, ok := s.Grid(root); !ok {
			problems = append(problems, fmt.Sprintf("big space %v: root does not carry a Grid", root))
		}
		origin, ok := s.FloatingOriginDescendant(root)
		if !ok {
			problems = append(problems, fmt.Sprintf("big space %v: zero or multiple FloatingOrigin descendants", root))
			continue
		}
		if _, ok := s.Cell(origin); !ok {
			problems = append(problems, fmt.Sprintf("big space %v: floating origin %v has no GridCell", root, origin))
		}
		problems = append(problems, validateSubtree(s, root, map[E]bool{root: true}, 0)...)
	}
	return problems
}

func validateSubtree[T Coord, E comparable](s Store[T, E], e E, visited map[E]bool, depth int) []string {
	if depth > MaxGridTreeDepth {
		return []string{fmt.Sprintf("entity %v: grid tree depth exceeded during validation", e)}
	}
	var problems []string
	for _, child := range s.ChildrenOf(e) {
		if visited[child] {
			problems = append(problems, fmt.Sprintf("entity %v: cycle detected through child %v", e, child))
			continue
		}
		_, hasCell := s.Cell(child)
		_, isGrid := s.Grid(child)
		if !hasCell && !isGrid && !s.HasTransform(child) {
			problems = append(problems, fmt.Sprintf("entity %v: child %v carries neither GridCell, Grid, nor Transform", e, child))
		}
		visited[child] = true
		problems = append(problems, validateSubtree(s, child, visited, depth+1)...)
	}
	return problems
}
