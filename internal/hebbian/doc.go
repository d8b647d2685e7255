// Package hebbian trains and evaluates a single weight grid that separates
// rectangles from circles.
//
// The learning rule is class-blind: a sample whose feed-forward score against
// the weights is not positive gets folded into the weights; a positive score
// leaves them alone. Rectangles stamp +1 and circles stamp -1, so the sign of
// the accumulated cells carries the class separation.
//
// Key types: Config, Trainer, TrainStats, Report.
package hebbian
