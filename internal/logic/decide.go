package logic

// Decide returns the actuation decision for the given temperature and
// set point. Hysteresis defines a dead band around the set point:
// below (setPoint - hysteresis) the decision is Heating, above
// (setPoint + hysteresis) it is Cooling, and inside the band the
// previous decision is kept unchanged. The band is a no-change zone,
// not an instant-idle trigger: a temperature dithering across the set
// point cannot cycle the actuator.
//
// Decide is a pure function of its arguments.
func Decide(temperature, setPoint, hysteresis float64, prev Decision) Decision {
	switch {
	case temperature < setPoint-hysteresis:
		return Heating
	case temperature > setPoint+hysteresis:
		return Cooling
	default:
		return prev
	}
}
