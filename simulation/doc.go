// Package simulation provides an in-memory radio channel for tests and local
// experiments.
//
// A Medium stands for the air: every Radio attached to it hears every frame
// transmitted by the others. Frames can be corrupted on the way with a
// CorruptFunc, which also decides the error count the receiving modem reports,
// and every delivery is recorded for later inspection.
//
//	medium := simulation.NewMedium(simulation.WithBitErrors(rand.New(rand.NewSource(1)), 0.01))
//	a := medium.Attach("a")
//	b := medium.Attach("b")
//
//	a.Transmit(frame)
//	got, errs, _ := b.Receive(ctx, time.Second)
package simulation
