package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jobify/assistant/internal/advisor"
	"github.com/jobify/assistant/internal/aggregator"
	"github.com/jobify/assistant/internal/ai"
	"github.com/jobify/assistant/internal/ai/gemini"
	"github.com/jobify/assistant/internal/dispatcher"
	"github.com/jobify/assistant/internal/expertsai"
	"github.com/jobify/assistant/internal/logger"
	"github.com/jobify/assistant/internal/registration"
	"github.com/jobify/assistant/internal/resume"
	"github.com/jobify/assistant/internal/secrets"
	"github.com/jobify/assistant/internal/storage"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptTypeMessage = "Type a message"
	PromptDone        = "Done"
	PromptQuit        = "Quit"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive assistant session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("user", "u", "", "user id for the session. Default is 'local'.")

	viper.BindPFlag("user", runCmd.Flags().Lookup("user"))
}

// run is the main command for the cli.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		config = &Config{}
	}
	if config.Database == "" {
		config.Database = viper.GetString("database")
	}
	if config.ResumesDir == "" {
		config.ResumesDir = viper.GetString("resumes-dir")
	}
	if config.User == "" {
		config.User = viper.GetString("user")
	}

	logger.Info("starting the jobify-assistant", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store, err := storage.Open(config.Database)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err), zap.String("path", config.Database))
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logger.Fatal("migrating the database", zap.Error(err))
	}

	search := expertsai.New(ctx, logger)
	if config.Search != nil && config.Search.APIURL != "" {
		search.APIURL = config.Search.APIURL
	}

	completer, err := newCompleter(ctx, config.AI)
	if err != nil {
		logger.Warn("running without the AI assistant", zap.Error(err))
	}

	var analyzer *resume.Analyzer
	var asker dispatcher.Asker
	if completer != nil {
		analyzer = resume.NewAnalyzer(completer, logger)
		asker = advisor.New(store, store, completer, logger)
	}

	documents := storage.NewDocuments(config.ResumesDir)
	pipeline := resume.NewPipeline(documents, store, analyzer, logger)
	machine := registration.NewMachine(store, logger)
	matcher := aggregator.New(search, store, logger)

	d := dispatcher.New(store, machine, matcher, pipeline, asker, logger)

	session := &session{
		dispatcher: d,
		userID:     config.User,
	}

	if err := session.loop(ctx); err != nil && !errors.Is(err, errExit) {
		logger.Fatal("session ended", zap.Error(err))
	}

	logger.Info("exiting", zap.String("reason", "session closed"))
}

func newCompleter(ctx context.Context, cfg *AIConfig) (ai.Completer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("ai is not enabled in the configuration")
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	return gemini.New(ctx, apiKey, cfg.Gemini.Model)
}

// session drives one interactive conversation over stdin. Replies that carry
// buttons, selects or modals become prompts; everything else is printed.
type session struct {
	dispatcher *dispatcher.Dispatcher
	userID     string
}

func (s *session) loop(ctx context.Context) error {
	replies := s.dispatcher.HandleButton(ctx, s.userID, dispatcher.ButtonStart)

	for {
		next, err := s.render(ctx, replies)
		if err != nil {
			return err
		}
		replies = next
	}
}

// render prints the replies and runs the interaction the last of them asks
// for, returning the replies the interaction produced.
func (s *session) render(ctx context.Context, replies []dispatcher.Reply) ([]dispatcher.Reply, error) {
	var buttons []dispatcher.Button
	var sel *dispatcher.Select
	var modal *dispatcher.Modal

	for _, reply := range replies {
		if reply.Text != "" {
			fmt.Println(reply.Text)
		}
		if len(reply.Buttons) > 0 {
			buttons = reply.Buttons
		}
		if reply.Select != nil {
			sel = reply.Select
		}
		if reply.Modal != nil {
			modal = reply.Modal
		}
	}

	switch {
	case modal != nil:
		return s.promptModal(ctx, modal)
	case sel != nil:
		return s.promptSelect(ctx, sel)
	case len(buttons) > 0:
		return s.promptButtons(ctx, buttons)
	default:
		return s.promptMessage(ctx)
	}
}

func (s *session) promptButtons(ctx context.Context, buttons []dispatcher.Button) ([]dispatcher.Reply, error) {
	items := make([]string, 0, len(buttons)+2)
	for _, button := range buttons {
		items = append(items, button.Label)
	}
	items = append(items, PromptTypeMessage, PromptQuit)

	prompt := promptui.Select{
		Label: "Choose an action",
		Items: items,
	}

	idx, choice, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}

	switch choice {
	case PromptQuit:
		return nil, errExit
	case PromptTypeMessage:
		return s.promptMessage(ctx)
	}

	button := buttons[idx]
	if button.ID == dispatcher.ButtonResumeYes {
		replies := s.dispatcher.HandleButton(ctx, s.userID, button.ID)
		for _, reply := range replies {
			if reply.Text != "" {
				fmt.Println(reply.Text)
			}
		}
		return s.promptUpload(ctx)
	}

	return s.dispatcher.HandleButton(ctx, s.userID, button.ID), nil
}

func (s *session) promptSelect(ctx context.Context, sel *dispatcher.Select) ([]dispatcher.Reply, error) {
	chosen := make([]string, 0, sel.MaxValues)
	remaining := make([]registration.Option, len(sel.Options))
	copy(remaining, sel.Options)

	for len(chosen) < sel.MaxValues && len(remaining) > 0 {
		items := make([]string, 0, len(remaining)+1)
		for _, option := range remaining {
			items = append(items, option.Label)
		}
		if len(chosen) > 0 {
			items = append(items, PromptDone)
		}

		prompt := promptui.Select{
			Label: sel.Placeholder,
			Items: items,
			Size:  10,
		}

		idx, choice, err := prompt.Run()
		if err != nil {
			return nil, fmt.Errorf("prompt: %w", err)
		}
		if choice == PromptDone {
			break
		}

		chosen = append(chosen, remaining[idx].Value)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return s.dispatcher.HandleSelect(ctx, s.userID, sel.ID, chosen), nil
}

func (s *session) promptModal(ctx context.Context, modal *dispatcher.Modal) ([]dispatcher.Reply, error) {
	prompt := promptui.Prompt{Label: modal.Label}

	value, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}

	return s.dispatcher.HandleModal(ctx, s.userID, modal.ID, value), nil
}

func (s *session) promptMessage(ctx context.Context) ([]dispatcher.Reply, error) {
	prompt := promptui.Prompt{Label: ">"}

	content, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}

	if strings.EqualFold(strings.TrimSpace(content), "quit") {
		return nil, errExit
	}

	return s.dispatcher.HandleMessage(ctx, s.userID, content), nil
}

func (s *session) promptUpload(ctx context.Context) ([]dispatcher.Reply, error) {
	prompt := promptui.Prompt{Label: "Path to your PDF resume"}

	path, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}

	upload := resume.Upload{Filename: filepath.Base(path)}
	upload.Data, upload.Err = os.ReadFile(path)

	return s.dispatcher.HandleUpload(ctx, s.userID, upload), nil
}
