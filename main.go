package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/wutway/helpdesk/config"
	"github.com/wutway/helpdesk/internal/adapter/assistant"
	"github.com/wutway/helpdesk/internal/chat"
	"github.com/wutway/helpdesk/internal/domain"
	"github.com/wutway/helpdesk/internal/hub"
	"github.com/wutway/helpdesk/internal/policy"
	"github.com/wutway/helpdesk/internal/sanitize"
	"github.com/wutway/helpdesk/internal/session"
	"github.com/wutway/helpdesk/internal/store"
	"github.com/wutway/helpdesk/internal/trace"
	handler "github.com/wutway/helpdesk/internal/transport/http"
	"github.com/wutway/helpdesk/internal/wut"
)

func main() {
	chatMode := flag.Bool("chat", false, "run the terminal chat client instead of the server")
	flag.Parse()

	cfg := config.Load()

	if *chatMode {
		if err := runChat(cfg); err != nil {
			log.Fatalf("Chat client failed: %v", err)
		}
		return
	}

	if err := runServer(cfg); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func runServer(cfg *config.Config) error {
	log.Printf("Starting helpdesk server...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)

	tr := trace.NewLog()

	ctx := context.Background()
	rules, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		return fmt.Errorf("failed to initialize policy engine: %w", err)
	}

	engine := wut.NewEngine(rules, tr)
	traceHub := hub.NewHub(tr)
	h := handler.NewHandler(engine, tr, traceHub)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Helpdesk API started on port %d", cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down helpdesk...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	traceHub.CloseAll()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Helpdesk stopped")
	return nil
}

func runChat(cfg *config.Config) error {
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer db.Close()

	greeting := &domain.Message{
		MessageID: domain.NewMessageID(),
		Role:      domain.RoleAssistant,
		Content:   cfg.Greeting,
		Type:      domain.TypeGreeting,
	}

	sessions := session.NewManager(db, greeting)
	client := assistant.NewClient(cfg.AnswerServiceURL, cfg.HTTPTimeout)
	tr := trace.NewLog()
	flow := chat.NewFlow(sessions, client, tr)

	fmt.Printf("Connected to %s (session %s)\n", cfg.AnswerServiceURL, sessions.CurrentID())
	fmt.Println("Commands: /new /sessions /switch <id> /delete <id> /trace /quit")
	printMessages(sessions.CurrentMessages())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			flow.Wait()
			return nil

		case line == "/new":
			id := sessions.CreateSession()
			fmt.Printf("Created %s\n", id)

		case line == "/sessions":
			for _, s := range sessions.Sessions() {
				marker := " "
				if s.ID == sessions.CurrentID() {
					marker = "*"
				}
				fmt.Printf("%s %s  %s\n", marker, s.ID, s.Title)
			}

		case strings.HasPrefix(line, "/switch "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "/switch "))
			if err := sessions.SwitchCurrent(id); err != nil {
				fmt.Printf("Switch failed: %v\n", err)
				continue
			}
			printMessages(sessions.CurrentMessages())

		case strings.HasPrefix(line, "/delete "):
			id := strings.TrimSpace(strings.TrimPrefix(line, "/delete "))
			if err := sessions.DeleteSession(id); err != nil {
				fmt.Printf("Delete failed: %v\n", err)
			}

		case line == "/trace":
			for _, entry := range tr.Snapshot() {
				fmt.Printf("[%s] %s\n", entry.Time.Format("15:04:05"), entry.Text)
			}

		case line == "":
			continue

		default:
			err := flow.Submit(context.Background(), line)
			switch {
			case errors.Is(err, domain.ErrInFlight):
				fmt.Println("Still working on the previous message...")
				continue
			case errors.Is(err, domain.ErrEmptyInput):
				continue
			}
			// Backend failures already left an error message in the
			// conversation, so render the latest message either way.
			flow.Wait()
			printLatest(sessions.CurrentMessages())
		}
	}
	flow.Wait()
	return scanner.Err()
}

func printMessages(messages []domain.Message) {
	for _, m := range messages {
		fmt.Printf("[%s] %s\n", m.Role, sanitize.Sanitize(m.Content))
	}
}

func printLatest(messages []domain.Message) {
	if len(messages) == 0 {
		return
	}
	m := messages[len(messages)-1]
	fmt.Printf("[%s] %s\n", m.Role, sanitize.Sanitize(m.Content))
	for _, q := range m.Suggestions {
		fmt.Printf("  ? %s\n", q)
	}
}
