package evaluate

// Rating is a verbal band for an R² value.
type Rating string

const (
	RatingWorseThanMean Rating = "worse than mean"
	RatingVeryBad       Rating = "very bad"
	RatingBad           Rating = "bad"
	RatingModerate      Rating = "moderate"
	RatingGood          Rating = "good"
	RatingVeryGood      Rating = "very good"
	RatingExcellent     Rating = "excellent"
)

// Rate maps R² to its band. A negative R² means the line predicts worse
// than the mean price does.
func Rate(r2 float64) Rating {
	switch {
	case r2 >= 0.90:
		return RatingExcellent
	case r2 >= 0.75:
		return RatingVeryGood
	case r2 >= 0.60:
		return RatingGood
	case r2 >= 0.40:
		return RatingModerate
	case r2 >= 0.20:
		return RatingBad
	case r2 >= 0:
		return RatingVeryBad
	default:
		return RatingWorseThanMean
	}
}

// String returns string representation.
func (r Rating) String() string {
	return string(r)
}
