package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	redisDriver "github.com/redis/go-redis/v9"

	"social-go/internal/config"
	"social-go/internal/email"
	"social-go/internal/handlers/apiserver"
	appKafka "social-go/internal/kafka"
	kafkaHandlers "social-go/internal/kafka/handlers"
	"social-go/internal/middleware"
	appRedis "social-go/internal/redis"
	"social-go/internal/services"
	"social-go/internal/storage"
)

func main() {
	// 1. Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded.")

	// 2. Database
	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := storage.AutoMigrateTables(db); err != nil {
		log.Fatalf("Failed to migrate database tables: %v", err)
	}

	// 3. Redis
	redisClient := redisDriver.NewClient(&redisDriver.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis.")

	tokenBlacklist := appRedis.NewRedisTokenBlacklist(redisClient)
	activationTokens := appRedis.NewRedisActivationTokenStore(redisClient)

	// 4. Repositories
	userRepo := storage.NewGormUserRepository(db)
	friendRequestRepo := storage.NewGormFriendRequestRepository(db)
	friendRepo := storage.NewGormFriendRepository(db)
	groupRepo := storage.NewGormGroupRepository(db)
	membershipRepo := storage.NewGormGroupMembershipRepository(db)
	groupRequestRepo := storage.NewGormGroupRequestRepository(db)
	userPostRepo := storage.NewGormUserPostRepository(db)
	groupPostRepo := storage.NewGormGroupPostRepository(db)

	// 5. Kafka producer
	kfkProducer, err := appKafka.NewConfluentKafkaProducer(cfg.Kafka)
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}
	defer kfkProducer.Close()
	log.Println("Kafka producer initialized.")

	// 6. Services
	userService := services.NewUserService(userRepo, activationTokens, tokenBlacklist, kfkProducer, cfg.Auth, cfg.Kafka)
	friendService := services.NewFriendService(db, userRepo, friendRequestRepo, friendRepo)
	groupService := services.NewGroupService(db, groupRepo, membershipRepo, groupRequestRepo, groupPostRepo)
	userPostService := services.NewUserPostService(db, userRepo, userPostRepo)
	groupPostService := services.NewGroupPostService(db, groupRepo, membershipRepo, groupPostRepo)

	// 7. Handlers and middleware
	authHandler := apiserver.NewAuthHandler(userService)
	userHandler := apiserver.NewUserHandler(userService, groupService)
	friendHandler := apiserver.NewFriendHandler(friendService)
	groupHandler := apiserver.NewGroupHandler(groupService)
	userPostHandler := apiserver.NewUserPostHandler(userPostService)
	groupPostHandler := apiserver.NewGroupPostHandler(groupPostService)

	authn := middleware.NewAuthenticator(userRepo, tokenBlacklist, cfg.Auth)

	// 8. Routes
	r := mux.NewRouter()

	// 8.1 Authentication routes (no token required)
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	authRouter.HandleFunc("/confirm/{token}", authHandler.Confirm).Methods(http.MethodPost)

	// 8.2 Public reads. Registered before the authenticated subrouter so
	// they match first; a bearer token is honored when present but never
	// required.
	optional := func(h http.HandlerFunc) http.Handler { return authn.OptionalAuth(h) }

	r.Handle("/api/v1/groups", optional(groupHandler.List)).Methods(http.MethodGet)
	r.Handle("/api/v1/groups/{groupID:[0-9]+}", optional(groupHandler.Get)).Methods(http.MethodGet)
	r.Handle("/api/v1/groups/{groupID:[0-9]+}/memberships", optional(groupHandler.ListMemberships)).Methods(http.MethodGet)
	r.Handle("/api/v1/groups/{groupID:[0-9]+}/posts", optional(groupPostHandler.ListPosts)).Methods(http.MethodGet)
	r.Handle("/api/v1/groups/{groupID:[0-9]+}/posts/{postID:[0-9]+}", optional(groupPostHandler.GetPost)).Methods(http.MethodGet)
	r.Handle("/api/v1/groups/{groupID:[0-9]+}/posts/{postID:[0-9]+}/comments", optional(groupPostHandler.ListComments)).Methods(http.MethodGet)
	r.Handle("/api/v1/groups/{groupID:[0-9]+}/posts/{postID:[0-9]+}/reactions", optional(groupPostHandler.ListReactions)).Methods(http.MethodGet)
	r.Handle("/api/v1/users/{userID:[0-9]+}/posts", optional(userPostHandler.ListPosts)).Methods(http.MethodGet)
	r.Handle("/api/v1/users/{userID:[0-9]+}/posts/{postID:[0-9]+}", optional(userPostHandler.GetPost)).Methods(http.MethodGet)
	r.Handle("/api/v1/users/{userID:[0-9]+}/posts/{postID:[0-9]+}/comments", optional(userPostHandler.ListComments)).Methods(http.MethodGet)
	r.Handle("/api/v1/users/{userID:[0-9]+}/posts/{postID:[0-9]+}/reactions", optional(userPostHandler.ListReactions)).Methods(http.MethodGet)

	// 8.3 Authenticated API routes
	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(authn.RequireAuth)

	apiRouter.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	// Users
	apiRouter.HandleFunc("/users", userHandler.ListUsers).Methods(http.MethodGet)
	apiRouter.HandleFunc("/users/me", userHandler.GetMe).Methods(http.MethodGet)
	apiRouter.HandleFunc("/users/me/group-requests", userHandler.ListOwnGroupRequests).Methods(http.MethodGet)
	apiRouter.HandleFunc("/users/me/group-requests/{requestID:[0-9]+}", userHandler.WithdrawGroupRequest).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/users/{userID:[0-9]+}", userHandler.GetUser).Methods(http.MethodGet)

	// Friend requests and friendships
	apiRouter.HandleFunc("/friend-requests", friendHandler.CreateRequest).Methods(http.MethodPost)
	apiRouter.HandleFunc("/friend-requests/received", friendHandler.ListReceived).Methods(http.MethodGet)
	apiRouter.HandleFunc("/friend-requests/received/{requestID:[0-9]+}", friendHandler.GetReceived).Methods(http.MethodGet)
	apiRouter.HandleFunc("/friend-requests/sent", friendHandler.ListSent).Methods(http.MethodGet)
	apiRouter.HandleFunc("/friend-requests/sent/{requestID:[0-9]+}", friendHandler.GetSent).Methods(http.MethodGet)
	apiRouter.HandleFunc("/friend-requests/{requestID:[0-9]+}", friendHandler.ResolveRequest).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/friend-requests/{requestID:[0-9]+}", friendHandler.WithdrawRequest).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/friends", friendHandler.ListFriends).Methods(http.MethodGet)
	apiRouter.HandleFunc("/friends/{friendID:[0-9]+}", friendHandler.GetFriend).Methods(http.MethodGet)
	apiRouter.HandleFunc("/friends/{friendID:[0-9]+}", friendHandler.DeleteFriend).Methods(http.MethodDelete)

	// Groups
	apiRouter.HandleFunc("/groups", groupHandler.Create).Methods(http.MethodPost)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}", groupHandler.Update).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}", groupHandler.Delete).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/leave", groupHandler.Leave).Methods(http.MethodPost)

	// Join requests
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/requests", groupHandler.CreateRequest).Methods(http.MethodPost)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/requests", groupHandler.ListRequests).Methods(http.MethodGet)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/requests/{requestID:[0-9]+}", groupHandler.GetRequest).Methods(http.MethodGet)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/requests/{requestID:[0-9]+}", groupHandler.ResolveRequest).Methods(http.MethodPatch)

	// Memberships
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/memberships/{membershipID:[0-9]+}", groupHandler.GetMembership).Methods(http.MethodGet)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/memberships/{membershipID:[0-9]+}", groupHandler.UpdateMembership).Methods(http.MethodPatch)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/memberships/{membershipID:[0-9]+}", groupHandler.RemoveMembership).Methods(http.MethodDelete)

	// Group posts
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/posts", groupPostHandler.CreatePost).Methods(http.MethodPost)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/posts/{postID:[0-9]+}", groupPostHandler.UpdatePost).Methods(http.MethodPut)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/posts/{postID:[0-9]+}", groupPostHandler.DeletePost).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/posts/{postID:[0-9]+}/comments", groupPostHandler.CreateComment).Methods(http.MethodPost)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/posts/{postID:[0-9]+}/comments/{commentID:[0-9]+}", groupPostHandler.UpdateComment).Methods(http.MethodPut)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/posts/{postID:[0-9]+}/comments/{commentID:[0-9]+}", groupPostHandler.DeleteComment).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/posts/{postID:[0-9]+}/reactions", groupPostHandler.CreateReaction).Methods(http.MethodPost)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/posts/{postID:[0-9]+}/reactions/{reactionID:[0-9]+}", groupPostHandler.UpdateReaction).Methods(http.MethodPut)
	apiRouter.HandleFunc("/groups/{groupID:[0-9]+}/posts/{postID:[0-9]+}/reactions/{reactionID:[0-9]+}", groupPostHandler.DeleteReaction).Methods(http.MethodDelete)

	// Wall posts
	apiRouter.HandleFunc("/users/{userID:[0-9]+}/posts", userPostHandler.CreatePost).Methods(http.MethodPost)
	apiRouter.HandleFunc("/users/{userID:[0-9]+}/posts/{postID:[0-9]+}", userPostHandler.UpdatePost).Methods(http.MethodPut)
	apiRouter.HandleFunc("/users/{userID:[0-9]+}/posts/{postID:[0-9]+}", userPostHandler.DeletePost).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/users/{userID:[0-9]+}/posts/{postID:[0-9]+}/comments", userPostHandler.CreateComment).Methods(http.MethodPost)
	apiRouter.HandleFunc("/users/{userID:[0-9]+}/posts/{postID:[0-9]+}/comments/{commentID:[0-9]+}", userPostHandler.UpdateComment).Methods(http.MethodPut)
	apiRouter.HandleFunc("/users/{userID:[0-9]+}/posts/{postID:[0-9]+}/comments/{commentID:[0-9]+}", userPostHandler.DeleteComment).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/users/{userID:[0-9]+}/posts/{postID:[0-9]+}/reactions", userPostHandler.CreateReaction).Methods(http.MethodPost)
	apiRouter.HandleFunc("/users/{userID:[0-9]+}/posts/{postID:[0-9]+}/reactions/{reactionID:[0-9]+}", userPostHandler.UpdateReaction).Methods(http.MethodPut)
	apiRouter.HandleFunc("/users/{userID:[0-9]+}/posts/{postID:[0-9]+}/reactions/{reactionID:[0-9]+}", userPostHandler.DeleteReaction).Methods(http.MethodDelete)

	// 9. Activation email consumer
	emailSender, err := email.NewSenderFromConfig(cfg.Email)
	if err != nil {
		log.Fatalf("Failed to initialize email sender: %v", err)
	}
	activationHandler := kafkaHandlers.NewActivationEmailHandler(emailSender, cfg.Email)

	activationConsumer, err := appKafka.NewConfluentKafkaConsumer(cfg.Kafka)
	if err != nil {
		log.Fatalf("Failed to create Kafka consumer: %v", err)
	}
	defer activationConsumer.Close()

	consumerCtx, cancelConsumers := context.WithCancel(context.Background())
	defer cancelConsumers()

	go func() {
		topics := []string{cfg.Kafka.ActivationEmailTopic}
		err := activationConsumer.Consume(consumerCtx, topics, cfg.Kafka.ConsumerGroup, activationHandler.Handle)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Activation email consumer error: %v", err)
		}
		log.Println("Activation email consumer stopped.")
	}()

	// 10. HTTP server with CORS and graceful shutdown
	serverAddr := fmt.Sprintf("%s:%s", cfg.APIServer.Host, cfg.APIServer.Port)

	corsOptions := []handlers.CORSOption{
		handlers.AllowedOrigins(cfg.APIServer.CORS.AllowedOrigins),
		handlers.AllowedMethods(cfg.APIServer.CORS.AllowedMethods),
		handlers.AllowedHeaders(cfg.APIServer.CORS.AllowedHeaders),
		handlers.ExposedHeaders(cfg.APIServer.CORS.ExposedHeaders),
		handlers.MaxAge(cfg.APIServer.CORS.MaxAge),
	}
	if cfg.APIServer.CORS.AllowCredentials {
		corsOptions = append(corsOptions, handlers.AllowCredentials())
	}
	corsHandler := handlers.CORS(corsOptions...)(r)

	srv := &http.Server{
		Addr:           serverAddr,
		Handler:        corsHandler,
		ReadTimeout:    cfg.APIServer.ReadTimeout,
		WriteTimeout:   cfg.APIServer.WriteTimeout,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: cfg.APIServer.MaxHeaderBytes,
	}

	go func() {
		log.Printf("API server listening on %s", serverAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, stopping API server...")

	cancelConsumers()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("API server forced to shut down: %v", err)
	}
	log.Println("API server stopped.")
}
