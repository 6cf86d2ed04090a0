package main

import (
	"context"
	"log"
	"os"
	"stylaapi/dbhelper"
	"stylaapi/services"
	"stylaapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/hibiken/asynq"
)

func main() {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			"generate": 7,
		}},
	)
	stylist := services.GoogleLLMStylist{}
	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase app: %v\n", err)
		return
	}
	mux := asynq.NewServeMux()
	db := dbhelper.SetupDB()
	mux.HandleFunc(tasks.TypePlanGeneration, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandlePlanGenerationTask(ctx, t, db, stylist, app)
	})

	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
