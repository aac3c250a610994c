package game

const (
	SimHz        = 20.0 // server tick rate
	Dt           = 1.0 / SimHz
	UpdateRateHz = 10.0 // per-client WS event pushes

	DefaultRoomID = "default"

	WorldW = 800.0
	WorldH = 600.0

	// New players materialize at the center of the map; the client reports
	// real positions from then on.
	PlayerStartX = 400.0
	PlayerStartY = 300.0

	DefaultSpawnCap       = 5
	DefaultSpawnIntervalS = 10.0
	MinSpawnIntervalS     = 1.0

	// Seconds a room may sit with zero members before the hub drops it
	// (and with it the spawn schedule).
	EmptyRoomGraceS = 60.0
)
