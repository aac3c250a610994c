package main

import (
	"flag"

	"BazaarBrawl/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on (e.g., 127.0.0.1:8080)")
	spawnConfigPath := flag.String("spawn-config", "configs/spawn.yaml", "path to spawn tuning YAML")
	spawnCap := flag.Int("spawn-cap", 0, "override maximum concurrent monsters per room")
	spawnInterval := flag.Float64("spawn-interval", 0, "override seconds between spawn attempts")
	adminToken := flag.String("admin-token", "", "token granting admin capability at connect time (empty disables admin)")
	flag.Parse()

	cfg := server.DefaultAppConfig()
	cfg.SpawnConfigPath = *spawnConfigPath
	cfg.AdminToken = *adminToken

	var overrides server.SpawnOverrides
	if *spawnCap > 0 {
		val := *spawnCap
		overrides.MaxMonsters = &val
	}
	if *spawnInterval > 0 {
		val := *spawnInterval
		overrides.IntervalSeconds = &val
	}
	cfg.SpawnOverrides = overrides

	server.StartApp(*addr, cfg)
}
