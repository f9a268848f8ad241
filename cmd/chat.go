package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/studypilot/studypilot/internal/agent"
	"github.com/studypilot/studypilot/internal/config"
	"github.com/studypilot/studypilot/internal/container"
	"github.com/studypilot/studypilot/internal/schema"
)

var (
	chatMessage string
	chatMode    string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the study assistant",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVar(&chatMode, "mode", "", "Dialogue mode: socratic or assignment")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if chatMode == "" {
		chatMode = cfg.Agent.Mode
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}

	if chatMessage != "" {
		return runSingleMessage(c.AgentLoop())
	}
	return runInteractive(c.AgentLoop())
}

// runSingleMessage sends one message to the agent and prints the response.
func runSingleMessage(loop *agent.Loop) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	fmt.Fprintf(os.Stderr, "  ↳ thinking...\n")
	outcome, err := loop.Run(ctx, agent.BuildConversation(nil, chatMessage, chatMode))
	if err != nil && !errors.Is(err, agent.ErrMaxIterations) {
		return err
	}

	printResponse(outcome.Answer, err)
	return nil
}

// runInteractive starts the REPL: reads lines from stdin, runs each through
// the agent loop, and carries the returned conversation forward as history.
func runInteractive(loop *agent.Loop) error {
	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit)\n\n", logo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listenForSignals(cancel)

	var history []schema.Message
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("You: ")

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		runCtx, runCancel := context.WithTimeout(ctx, 5*time.Minute)
		outcome, err := loop.Run(runCtx, agent.BuildConversation(history, line, chatMode))
		runCancel()

		if err != nil && !errors.Is(err, agent.ErrMaxIterations) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		printResponse(outcome.Answer, err)
		history = outcome.Conversation.Messages
	}
}

// listenForSignals cancels ctx on SIGINT or SIGTERM and exits.
func listenForSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nGoodbye!")
		cancel()
		os.Exit(0)
	}()
}

func printResponse(text string, err error) {
	fmt.Printf("\n%s studypilot\n%s\n\n", logo, text)
	if errors.Is(err, agent.ErrMaxIterations) {
		fmt.Fprintln(os.Stderr, "(stopped at the tool-iteration limit; the answer above may be incomplete)")
	}
}
