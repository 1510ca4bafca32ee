package testgen

// ToDisplay re-expresses stored questions in the caller-facing shape.
func ToDisplay(qs []Question) []DisplayQuestion {
	out := make([]DisplayQuestion, 0, len(qs))
	for _, q := range qs {
		d := DisplayQuestion{
			Question: q.Text,
			Type:     DisplayLabel(string(q.Type)),
			Options:  []string{},
		}
		for _, o := range q.Options {
			d.Options = append(d.Options, o.Text)
		}
		if d.Type == "True/False" && len(d.Options) == 0 {
			d.Options = []string{"True", "False"}
		}
		out = append(out, d)
	}
	return out
}
