package model

// DemoPlan returns the built-in two-day plan used when a trip has never been saved
// and the caller supplies no fallback of its own.
func DemoPlan() []Day {
	return []Day{
		{
			Day: 1,
			Activities: []Activity{
				{ID: "a1", Title: "Visit museum", Time: "10:00", Location: "City Museum", Cost: Float(20), Notes: "Buy tickets online"},
				{ID: "a2", Title: "Lunch at local café", Time: "13:00", Location: "Old Town", Cost: Float(15)},
				{ID: "a3", Title: "Beach walk", Time: "17:00", Location: "North Beach", Cost: Float(0)},
			},
		},
		{
			Day: 2,
			Activities: []Activity{
				{ID: "b1", Title: "Hiking trail", Time: "09:00", Notes: "Bring water"},
				{ID: "b2", Title: "Dinner cruise", Time: "19:30"},
			},
		},
	}
}
