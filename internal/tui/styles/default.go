package styles

// NewDefaultTheme creates the dark sahayak theme: warm saffron and teal on
// charcoal.
func NewDefaultTheme() *Theme {
	return &Theme{
		Name:   "default",
		IsDark: true,

		Primary:   ParseHex("#f4a259"), // Saffron
		Secondary: ParseHex("#5bc0be"), // Teal
		Tertiary:  ParseHex("#3a506b"), // Slate
		Accent:    ParseHex("#f6d365"), // Marigold

		BgBase:    ParseHex("#1c1c1e"),
		BgSubtle:  ParseHex("#242427"),
		BgOverlay: ParseHex("#2c2c30"),

		FgBase:   ParseHex("#e0ddd5"),
		FgMuted:  ParseHex("#9a958a"),
		FgSubtle: ParseHex("#615d55"),

		Border:      ParseHex("#3a506b"),
		BorderFocus: ParseHex("#f4a259"),

		Success: ParseHex("#8ac926"),
		Error:   ParseHex("#ef476f"),
		Warning: ParseHex("#ffd166"),
		Info:    ParseHex("#5bc0be"),
	}
}

// NewLightTheme is used when the terminal background is light.
func NewLightTheme() *Theme {
	return &Theme{
		Name:   "light",
		IsDark: false,

		Primary:   ParseHex("#c2620a"),
		Secondary: ParseHex("#1f7a78"),
		Tertiary:  ParseHex("#9aa9bd"),
		Accent:    ParseHex("#a8620a"),

		BgBase:    ParseHex("#fbf8f1"),
		BgSubtle:  ParseHex("#f1ece1"),
		BgOverlay: ParseHex("#e8e1d3"),

		FgBase:   ParseHex("#2b2925"),
		FgMuted:  ParseHex("#6b665c"),
		FgSubtle: ParseHex("#9a958a"),

		Border:      ParseHex("#9aa9bd"),
		BorderFocus: ParseHex("#c2620a"),

		Success: ParseHex("#3b7d0b"),
		Error:   ParseHex("#b3123e"),
		Warning: ParseHex("#9c6b00"),
		Info:    ParseHex("#1f7a78"),
	}
}
