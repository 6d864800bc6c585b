// Package sim declares the contracts between the experiment
// orchestration core and its external collaborators: the network model,
// its controllers and detectors, the disturbance and observable value
// objects, and the simulation engine session.
//
// The orchestration core never reaches past these interfaces. Network
// solving, numerical integration, and controller logic live behind the
// Model and Engine implementations.
package sim
