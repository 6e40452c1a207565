package maps

// Classifier decides whether a static graphic is ever drawn.
type Classifier interface {
	IsNonDrawable(graphic uint16) bool
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(graphic uint16) bool

// IsNonDrawable calls f.
func (f ClassifierFunc) IsNonDrawable(graphic uint16) bool {
	return f(graphic)
}

// DefaultClassifier hides the graphics the client never renders without tile data.
var DefaultClassifier Classifier = ClassifierFunc(isNoDrawable)

func isNoDrawable(g uint16) bool {
	switch g {
	case 0x0001, 0x21BC, 0x5690:
		return true
	}
	return g >= 0x2198 && g <= 0x21A4
}

// drawAll treats every graphic as drawable.
var drawAll Classifier = ClassifierFunc(func(uint16) bool { return false })
