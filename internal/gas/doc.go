// Package gas implements an event-driven simulation of a 2D hard-sphere gas
// in a circular container.
//
// Unlike a fixed-timestep integrator, the engine advances collision by
// collision: it keeps a table of predicted contact times for every ball-ball
// pair and every ball against the wall, jumps the whole system to the
// earliest one, resolves that collision elastically, and repairs only the
// table entries the collision invalidated.
//
//   - [Ball]: kinematics, collision-time prediction, elastic resolution
//   - [CollisionTable]: relative contact times with incremental repair
//   - [Engine]: the event loop and aggregate observables
//   - [Snapshot], [BallReport]: read-only views for reporting
//
// # Example
//
//	balls, _ := state.Load("initial.csv")
//	eng, _ := gas.NewEngine(10, balls)
//	err := eng.Run(ctx, 1000)
//	fmt.Println(eng.Snapshot().Pressure)
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. The simulation is an inherently
// serial replay: each event depends on the exact post-event state of the
// previous one.
package gas
