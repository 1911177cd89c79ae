package cmd

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sahayak-app/sahayak/internal/api"
	"github.com/sahayak-app/sahayak/internal/artifact"
	"github.com/sahayak-app/sahayak/internal/generation"
	"github.com/sahayak-app/sahayak/internal/material"
	"github.com/sahayak-app/sahayak/internal/pubsub"
	"github.com/sahayak-app/sahayak/internal/render"
	"github.com/sahayak-app/sahayak/internal/tui"
	"github.com/sahayak-app/sahayak/internal/tui/page/watch"
)

// generateFlags are shared by every generate subcommand.
type generateFlags struct {
	topic        string
	day          string
	grade        string
	question     string
	thread       string
	requirements string
	from         string
	watch        bool
	save         bool
	copy         bool
	plain        bool
	json         bool
	noHistory    bool
}

// requestBuilder turns flags into a request for one artifact kind.
type requestBuilder func(f *generateFlags) generation.Request

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate classroom content",
		Long: `Generate classroom content and stream the server's progress.

Examples:
  sahayak generate answer --topic t1 --question "Why is the sky blue?"
  sahayak generate activities --day d1 --grade g3 --topic t1 --watch
  sahayak generate prompts --topic t1 --day d1 --save
  sahayak generate video --topic t1 --day d1
  sahayak generate prompts --from 3f2a --requirements "use simpler words"`,
	}

	cmd.AddCommand(newGenerateKindCmd("answer", "Answer a question about a topic", artifact.KindAnswer,
		func(f *generateFlags) generation.Request {
			return &generation.AnswerRequest{TopicID: f.topic, DayID: f.day, Question: f.question, ThreadID: f.thread, TeacherRequirements: f.requirements}
		}))
	cmd.AddCommand(newGenerateKindCmd("activities", "Generate activities for a grade", artifact.KindActivities,
		func(f *generateFlags) generation.Request {
			return &generation.ActivitiesRequest{DayID: f.day, GradeID: f.grade, TopicID: f.topic, ThreadID: f.thread, TeacherRequirements: f.requirements}
		}))
	cmd.AddCommand(newGenerateKindCmd("prompts", "Generate question prompts for a lesson day", artifact.KindQuestionPrompts,
		func(f *generateFlags) generation.Request {
			return &generation.QuestionPromptsRequest{TopicID: f.topic, DayID: f.day, ThreadID: f.thread, TeacherRequirements: f.requirements}
		}))
	cmd.AddCommand(newGenerateKindCmd("video", "Generate an explainer video", artifact.KindVideo,
		func(f *generateFlags) generation.Request {
			return &generation.VideoRequest{TopicID: f.topic, DayID: f.day, ThreadID: f.thread, TeacherRequirements: f.requirements}
		}))

	return cmd
}

func newGenerateKindCmd(use, short string, kind artifact.Kind, build requestBuilder) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, kind, build, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.topic, "topic", "", "Topic ID")
	flags.StringVar(&f.day, "day", "", "Day ID")
	if kind == artifact.KindActivities {
		flags.StringVar(&f.grade, "grade", "", "Grade ID")
	}
	if kind == artifact.KindAnswer {
		flags.StringVarP(&f.question, "question", "q", "", "Question to answer")
	}
	flags.StringVar(&f.thread, "thread", "", "Conversation thread ID (default: new thread)")
	flags.StringVarP(&f.requirements, "requirements", "r", "", "Teacher requirements for the result")
	flags.StringVar(&f.from, "from", "", "Revise a result from history (ID or prefix); needs --requirements")
	flags.BoolVarP(&f.watch, "watch", "w", false, "Follow the generation in an interactive view")
	flags.BoolVar(&f.save, "save", false, "Publish the result to the server's class materials")
	flags.BoolVar(&f.copy, "copy", false, "Copy the result to the clipboard as markdown")
	flags.BoolVar(&f.plain, "plain", false, "Print markdown without styling")
	flags.BoolVar(&f.json, "json", false, "Print the result as JSON")
	flags.BoolVar(&f.noHistory, "no-history", false, "Do not record the result in local history")

	return cmd
}

func runGenerate(cmd *cobra.Command, kind artifact.Kind, build requestBuilder, f *generateFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	hub := pubsub.NewHub()
	defer hub.Shutdown()

	var hist *history
	if (cfg.AutoSave() && !f.noHistory) || f.from != "" {
		hist, err = openHistory(ctx, cfg, hub.Material)
		if err != nil {
			return err
		}
		defer hist.Close()
	}

	req, err := buildRequest(ctx, kind, build, f, hist)
	if err != nil {
		return err
	}

	client := newAPIClient(cfg)
	pub := newPublisher(client, hist)

	// Record successful results while the session runs.
	var recorderDone chan struct{}
	stopRecorder := func() {}
	if hist != nil && cfg.AutoSave() && !f.noHistory {
		recCtx, cancel := context.WithCancel(ctx)
		sub := hub.Generation.Subscribe(recCtx)
		recorder := material.NewRecorder(hist.service, material.OnSaved(pub.recorded))
		recorderDone = make(chan struct{})
		go func() {
			defer close(recorderDone)
			recorder.Run(recCtx, sub)
		}()
		stopRecorder = func() {
			cancel()
			<-recorderDone
		}
	}

	session := generation.NewSession(newTransport(cfg),
		generation.WithPublisher(hub.Generation),
		generation.WithTimeout(timeout),
	)
	defer session.Close()

	profile := termenv.EnvColorProfile()
	if f.plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		profile = termenv.Ascii
	}
	renderer := render.NewTerminal(cfg.BaseURL(), profile)

	var st generation.State
	if f.watch {
		st, err = tui.Run(ctx, hub, watch.Options{
			Session:  session,
			Request:  req,
			Renderer: renderer,
			Save:     pub.Save,
		})
		stopRecorder()
		if err != nil {
			return err
		}
		printSaved(cmd.ErrOrStderr(), pub)
		return nil
	}

	st, err = streamPlain(ctx, cmd.ErrOrStderr(), session, req)
	stopRecorder()
	if err != nil {
		return err
	}
	if err := st.Outcome(); err != nil {
		return err
	}

	if err := printResult(cmd.OutOrStdout(), renderer, st.Result, f); err != nil {
		return err
	}
	printSaved(cmd.ErrOrStderr(), pub)

	if f.copy {
		if err := clipboard.WriteAll(renderer.Markdown(st.Result)); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
	}
	if f.save {
		notice, err := pub.Save(ctx, st)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), notice)
	}
	return nil
}

// buildRequest assembles the request from flags, or from a history entry
// when --from is set.
func buildRequest(ctx context.Context, kind artifact.Kind, build requestBuilder, f *generateFlags, hist *history) (generation.Request, error) {
	if f.from == "" {
		if f.thread == "" {
			f.thread = generation.NewThreadID()
		}
		return build(f), nil
	}

	if f.requirements == "" {
		return nil, errors.New("--from needs --requirements describing what to change")
	}
	prev, err := hist.service.Get(ctx, f.from)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", f.from, err)
	}
	if prev.Kind != kind {
		return nil, fmt.Errorf("%s is a %s result, not %s", prev.ID, prev.Kind, kind)
	}

	// Revisions stay in the original thread and default to its scope.
	f.thread = prev.ThreadID
	f.topic = cmp.Or(f.topic, prev.Scope.TopicID)
	f.day = cmp.Or(f.day, prev.Scope.DayID)
	f.grade = cmp.Or(f.grade, prev.Scope.GradeID)

	return build(f).Refine(prev.Payload, f.requirements)
}

// streamPlain runs one generation, printing progress to w. Interrupts
// cancel the generation instead of killing the process.
func streamPlain(ctx context.Context, w io.Writer, session *generation.Session, req generation.Request) (generation.State, error) {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	stopCancel := context.AfterFunc(sigCtx, session.Cancel)
	defer stopCancel()

	width := 80
	if fd := int(os.Stderr.Fd()); term.IsTerminal(fd) {
		if tw, _, err := term.GetSize(fd); err == nil {
			width = tw
		}
	}

	cb := generation.Callbacks{
		OnProgress: func(msg string) {
			fmt.Fprintf(w, "… %s\n", render.ProgressLine(msg, width-2))
		},
	}
	if err := session.Start(context.WithoutCancel(ctx), req, cb); err != nil {
		return generation.State{}, err
	}
	return session.Wait(context.WithoutCancel(ctx))
}

func printResult(w io.Writer, renderer *render.Terminal, result artifact.Artifact, f *generateFlags) error {
	if f.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if f.plain {
		_, err := io.WriteString(w, renderer.Markdown(result))
		return err
	}

	width := 80
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if tw, _, err := term.GetSize(fd); err == nil && tw < 120 {
			width = tw
		}
	}
	out, err := renderer.Render(result, width)
	if err != nil {
		// The unstyled markdown is still worth showing.
		fmt.Fprintf(os.Stderr, "Warning: rendering failed: %v\n", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func printSaved(w io.Writer, pub *publisher) {
	for _, id := range pub.savedIDs() {
		fmt.Fprintf(w, "Saved to history as %s\n", shortID(id))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// publisher hands results to the server's class materials, marking the
// matching history entry when there is one.
type publisher struct {
	client  *api.Client
	history *history

	mu    sync.Mutex
	byRes map[artifact.Artifact]string
	order []string
}

func newPublisher(client *api.Client, hist *history) *publisher {
	return &publisher{
		client:  client,
		history: hist,
		byRes:   make(map[artifact.Artifact]string),
	}
}

// recorded is the recorder's OnSaved hook.
func (p *publisher) recorded(m *material.Material, err error) {
	if err != nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byRes[m.Payload] = m.ID
	p.order = append(p.order, m.ID)
}

func (p *publisher) savedIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.order...)
}

func (p *publisher) lookup(result artifact.Artifact) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.byRes[result]
}

// Save implements watch.SaveFunc.
func (p *publisher) Save(ctx context.Context, st generation.State) (string, error) {
	if st.Result == nil {
		return "", errors.New("nothing to save")
	}
	if !st.Scope.HasDay() {
		return "", fmt.Errorf("saving a %s needs a topic and a day (--day)", st.Kind)
	}

	if id := p.lookup(st.Result); id != "" && p.history != nil {
		if _, err := p.history.service.Publish(ctx, id, p.client); err != nil {
			return "", err
		}
		return "Published " + shortID(id) + " to class materials", nil
	}

	if err := p.client.SaveClassMaterial(ctx, st.Scope.TopicID, st.Scope.DayID, st.Result); err != nil {
		return "", fmt.Errorf("saving class material: %w", err)
	}
	return "Published to class materials", nil
}
