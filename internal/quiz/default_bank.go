package quiz

// DefaultBank is the built-in family travel type quiz: three axes, two items each,
// one normal and one reverse item per axis.
func DefaultBank() *Bank {
	return NewBank("Family Travel Type",
		[]AxisDef{
			{Letter: "E", Name: "Energy", High: "A", Low: "R"},
			{Letter: "P", Name: "Planning", High: "P", Low: "S"},
			{Letter: "C", Name: "Focus", High: "C", Low: "N"},
		},
		[]Question{
			{ID: 1, Axis: "E", Text: "Our ideal day away is packed with activities from morning to night."},
			{ID: 2, Axis: "E", IsReverse: true, Text: "A slow morning by the pool is the best part of a family trip."},
			{ID: 3, Axis: "P", Text: "We book accommodation and tickets well before we leave."},
			{ID: 4, Axis: "P", IsReverse: true, Text: "We like to decide where to eat once we get hungry."},
			{ID: 5, Axis: "C", Text: "Museums, historic sites and local food markets are musts for us."},
			{ID: 6, Axis: "C", IsReverse: true, Text: "We would rather spend the day hiking or at the beach than in town."},
		},
	)
}
