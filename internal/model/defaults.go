package model

// Defaults returns a fresh copy of the seed collection used when nothing
// has been persisted yet (or when storage is cleared).
func Defaults() []TrackedItem {
	return []TrackedItem{
		{
			ID:          1,
			Title:       "React + JSX",
			Description: "Basic components, JSX, props",
			Status:      Completed,
			Notes:       "JSX is a syntax extension for JavaScript",
			Category:    "frontend",
		},
		{
			ID:          2,
			Title:       "State (useState)",
			Description: "Managing state in function components",
			Status:      InProgress,
			Notes:       "The useState hook returns an array: [state, setState]",
			Category:    "frontend",
		},
		{
			ID:          3,
			Title:       "Effects (useEffect)",
			Description: "Working with APIs and side effects",
			Status:      InProgress,
			Notes:       "Used for data loading and subscriptions",
			Category:    "frontend",
		},
		{
			ID:          4,
			Title:       "React Router",
			Description: "Navigation between pages",
			Status:      NotStarted,
			Category:    "frontend",
		},
		{
			ID:          5,
			Title:       "Context API",
			Description: "Global state without prop drilling",
			Status:      NotStarted,
			Category:    "frontend",
		},
		{
			ID:          6,
			Title:       "Redux / Zustand",
			Description: "Advanced state management",
			Status:      NotStarted,
			Notes:       "Need to compare these two libraries",
			Category:    "state-management",
		},
	}
}
