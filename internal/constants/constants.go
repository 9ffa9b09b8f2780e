package constants

import "math"

const TwoPi = 2 * math.Pi

const ForwardVelocityEpsilon = 1e-9 // smallest accepted vx at the slit
const DegenerateFraction = 0.5      // crossing fraction when x does not change over the step
const StartDistanceRadii = 5.       // initial center distance from the slit, in max(R, 1)
const BudgetMarginRadii = 5.        // traversal margin beyond the start distance, in R
const BudgetExtraSteps = 1000
const StalledOrbitPeriods = 10 // budget for centers that never drift forward
