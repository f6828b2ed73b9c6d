package notify

import "fmt"

// Treatment is the stable visual identity of a severity.
type Treatment struct {
	Icon  string
	Label string
	// Color is an ANSI 256 palette index usable by lipgloss and fatih/color.
	Color string
}

// TreatmentFor maps every severity to a distinct treatment.
func TreatmentFor(s Severity) Treatment {
	switch s {
	case Success:
		return Treatment{Icon: "✔", Label: "Success", Color: "114"}
	case Error:
		return Treatment{Icon: "✖", Label: "Error", Color: "203"}
	case Warning:
		return Treatment{Icon: "▲", Label: "Warning", Color: "221"}
	case Info:
		return Treatment{Icon: "ℹ", Label: "Info", Color: "75"}
	}
	// Unreachable: Severity is a closed set.
	panic(fmt.Sprintf("notify: unknown severity %d", int(s)))
}

// Presentation is everything a renderer needs to draw a notification.
type Presentation struct {
	Message   string
	Severity  Severity
	Treatment Treatment
	Remaining float64
}

// Present maps a notification and its countdown to a presentation. It
// reports false when there is nothing to draw.
func Present(n *Notification, st TimerState) (Presentation, bool) {
	if n == nil || !st.Visible {
		return Presentation{}, false
	}
	remaining := st.Remaining
	if remaining < 0 {
		remaining = 0
	}
	if remaining > 1 {
		remaining = 1
	}
	return Presentation{
		Message:   n.Message,
		Severity:  n.Severity,
		Treatment: TreatmentFor(n.Severity),
		Remaining: remaining,
	}, true
}
