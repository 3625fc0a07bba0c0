package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"contractflow/api/handler"
	"contractflow/api/router"
	"contractflow/job"
	"contractflow/logic/analysis"
	"contractflow/logic/chat"
	"contractflow/logic/deadline"
	"contractflow/notify"
	"contractflow/service"
	"contractflow/storage/postgres"
	"contractflow/vars"
)

func main() {
	ctx := context.Background()

	// 1. DB
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		vars.PGHOST, vars.PGUSER, vars.PGPWD, vars.PGDB, vars.PGPORT)
	db, err := postgres.InitDB(dsn)
	if err != nil {
		panic(err)
	}
	pgRepo := postgres.NewContractRepo(db)

	// 2. LLM model (provider picked via LLM_PROVIDER)
	chatModel := chat.CreateChatModel(ctx, vars.LLMPROVIDER, vars.LLMMODEL)

	// 3. Domain pipeline
	orchestrator := analysis.NewOrchestrator(chatModel)
	resolver := deadline.NewResolver(chatModel)
	notifier := notify.FromConfig(vars.NOTIFY_URL)

	// 4. Service + background sweep
	workflowSvc := service.NewWorkflowService(pgRepo, orchestrator, resolver, notifier)
	job.StartCronJob(pgRepo, resolver)

	// 5. API
	contractHandler := handler.NewContractHandler(workflowSvc)
	r := gin.Default()
	router.RegisterRoutes(r, contractHandler)

	slog.Info("server running", "port", vars.PORT)
	if err := r.Run(":" + vars.PORT); err != nil {
		panic(err)
	}
}
