package regression

// Denormalize converts parameters fitted on normalized data back to
// original units:
//
//	theta1 = beta1 * price.std / mileage.std
//	theta0 = beta0 * price.std + price.mean - theta1 * mileage.mean
//
// The resulting line gives the same prediction as normalizing a mileage,
// applying beta0 + beta1*x and denormalizing the price.
func Denormalize(beta0, beta1 float64, s Scaling) Parameters {
	theta1 := beta1 * s.Price.Std / s.Mileage.Std
	theta0 := beta0*s.Price.Std + s.Price.Mean - theta1*s.Mileage.Mean
	return Parameters{Theta0: theta0, Theta1: theta1}
}

// Fit runs the full pipeline on raw data and returns the original-unit
// parameters together with the optimizer result and the scaling used.
func Fit(data []Observation, cfg TrainConfig) (Parameters, Result, Scaling, error) {
	normalized, s, err := Normalize(data)
	if err != nil {
		return Parameters{}, Result{}, Scaling{}, err
	}

	res, err := Train(normalized, cfg)
	if err != nil {
		return Parameters{}, Result{}, Scaling{}, err
	}

	return Denormalize(res.Beta0, res.Beta1, s), res, s, nil
}
