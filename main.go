package main

import (
	"context"
	"flag"
	"log"
	"time"

	"occupancy-server/config"
	"occupancy-server/di"
	"occupancy-server/util"
)

func seedReadings(container *di.Container, path string) {
	log.Printf("[Main] Seeding readings from %s", path)
	readings, err := util.ReadSeedReadingsFromJSON(path)
	if err != nil {
		log.Fatalf("[Main] Failed to read seed readings: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := container.OccupancyCollectorService.ImportReadings(ctx, readings); err != nil {
		log.Fatalf("[Main] Failed to import seed readings: %v", err)
	}
}

func main() {
	seed := flag.Bool("seed", false, "import the seed readings resource before starting")
	seedPath := flag.String("seed-file", "", "seed readings file (defaults to resources/"+config.SEED_READINGS_RESOURCE+")")
	noCollector := flag.Bool("no-collector", false, "serve stored readings without polling the counter api")
	flag.Parse()

	cfg := config.Load()
	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("[Main] Failed to initialize: %v", err)
	}
	defer container.Close()

	if *seed {
		path := *seedPath
		if path == "" {
			path = config.GetResourcePath(config.SEED_READINGS_RESOURCE)
		}
		seedReadings(container, path)
	}

	if !*noCollector {
		log.Println("[Main] Starting periodic occupancy collection")
		interval := time.Duration(cfg.CollectorScheduleMinutes) * time.Minute
		if err := container.OccupancyCollectorService.StartPeriodicJob(interval); err != nil {
			log.Fatalf("[Main] Failed to start collector: %v", err)
		}
		defer container.OccupancyCollectorService.Stop()
	}

	if err := container.OccupancyHttpServer.Start(); err != nil {
		log.Printf("[Main] Server stopped with error: %v", err)
	}
}
