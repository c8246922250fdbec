// Package diffusion implements an explicit 2-D heat-diffusion step on a
// toroidal grid.
//
// The package defines:
//
//   - [Field]: a rows x cols grid of float64 values
//   - [Stepper]: one diffusion step from a source field into a destination
//   - [LoopStepper], [ShiftStepper], [ParallelStepper]: interchangeable
//     strategies producing the same field
//   - [Evolve]: the validated, non-mutating form of a single step
//
// Each step computes, for every cell,
//
//	f'[i][j] = f[i][j] + D*dt*(f[i+1][j] + f[i-1][j] + f[i][j+1] + f[i][j-1] - 4*f[i][j])
//
// with indices taken modulo the grid dimensions, so the first and last rows
// (and columns) are neighbors. The total of all cells is conserved.
//
// # Example
//
//	f, _ := diffusion.FromRows(rows)
//	next, err := diffusion.Evolve(diffusion.NewShiftStepper(), f, 0.1, 1.0)
//
// # Thread Safety
//
// Steppers carry scratch buffers and must not be shared between goroutines.
// [ParallelStepper] parallelizes inside a single step only.
package diffusion
