package ui

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/bz888/saturday/internal/api"
	"github.com/bz888/saturday/internal/catalog"
	"github.com/bz888/saturday/internal/logger"
	"github.com/bz888/saturday/internal/transcript"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const panelPage = "panel"

// UI is the terminal chat screen.
type UI struct {
	app          *tview.Application
	pages        *tview.Pages
	mainFlex     *tview.Flex
	textView     *tview.TextView
	textArea     *tview.TextArea
	debugConsole *tview.TextView

	relay     *api.Client
	assembler *transcript.Assembler
	renders   *throttle
	submits   *submitQueue

	mu          sync.Mutex
	debugShown  bool
	ctx         context.Context
	localLogger *logger.Logger
}

type Options struct {
	Dev        bool
	RenderRate int
	// Generation options forwarded with every chat.
	Generation json.RawMessage
}

func New(relay *api.Client, opts Options) *UI {
	u := &UI{
		app:         tview.NewApplication(),
		relay:       relay,
		debugShown:  opts.Dev,
		ctx:         context.Background(),
		localLogger: logger.NewLogger("views"),
	}
	u.app.EnablePaste(true)
	u.app.EnableMouse(true)

	u.debugConsole = u.initDebugConsole()
	u.textView = u.initChatViewer()
	u.textArea = initChatInput()

	u.renders = newThrottle(opts.RenderRate, func(turns []transcript.Turn) {
		text := renderTranscript(turns)
		u.app.QueueUpdateDraw(func() {
			u.textView.SetText(text)
			u.textView.ScrollToEnd()
		})
	})
	u.assembler = transcript.NewAssembler(relay,
		transcript.WithOptions(opts.Generation),
		transcript.WithObserver(u.onEvent),
	)

	u.submits = newSubmitQueue(func(ctx context.Context, text string) {
		u.assembler.Submit(ctx, text)
	})

	u.layout()
	return u
}

// DebugConsole is handed to logger.InitLogger.
func (u *UI) DebugConsole() *tview.TextView {
	return u.debugConsole
}

func (u *UI) initChatViewer() *tview.TextView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	textView.SetTitle("Conversation").SetBorder(true)
	textView.SetScrollable(true)
	textView.SetText(renderTranscript(nil))
	return textView
}

func initChatInput() *tview.TextArea {
	textArea := tview.NewTextArea()
	textArea.SetTitle("Question").SetBorder(true)
	textArea.SetPlaceholder("Input query here")
	return textArea
}

func (u *UI) initDebugConsole() *tview.TextView {
	console := tview.NewTextView().
		SetChangedFunc(func() {
			u.app.Draw()
		}).
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	console.SetTitle("Debugger").SetBorder(true)
	console.ScrollToEnd()
	return console
}

func (u *UI) layout() {
	subFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(u.textView, 0, 1, false).
		AddItem(u.textArea, 8, 2, true)
	u.mainFlex = tview.NewFlex().
		AddItem(subFlex, 0, 2, true)

	if u.debugShown {
		u.mainFlex.AddItem(u.debugConsole, 0, 1, false)
	}

	u.pages = tview.NewPages().AddPage("main", u.mainFlex, true, true)

	u.textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEnter {
			u.app.SetFocus(u.textArea)
			return nil
		}
		return event
	})
	u.textArea.SetInputCapture(u.handleInput)
}

// Run blocks until the user quits or ctx ends.
func (u *UI) Run(ctx context.Context) error {
	u.ctx = ctx
	// Submit may wait for an earlier reply to stop, so it runs off the
	// event loop on one worker that preserves entry order.
	go u.submits.run(ctx)
	go func() {
		<-ctx.Done()
		u.app.Stop()
	}()

	defer u.assembler.Cancel()
	return u.app.SetRoot(u.pages, true).SetFocus(u.textArea).Run()
}

func (u *UI) onEvent(ev transcript.Event, turns []transcript.Turn) {
	force := ev.Delta == ""
	u.renders.push(turns, force)
	if ev.State.Terminal() {
		u.localLogger.Info("Reply ", ev.TurnID, " ", ev.State)
	}
}

func (u *UI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyESC:
		u.app.SetFocus(u.textView)
		return nil
	case tcell.KeyCtrlX:
		u.assembler.Cancel()
		return nil
	case tcell.KeyEnter:
		content := u.textArea.GetText()
		u.textArea.SetText("", true)
		u.dispatch(content)
		return nil
	}
	return event
}

func (u *UI) dispatch(content string) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "/") {
		if !u.submits.push(content) {
			u.localLogger.Warn("Input dropped, too many pending messages")
		}
		return
	}

	cmd, arg, _ := strings.Cut(trimmed, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/help":
		u.showPanel("Help", helpText)
	case "/stop":
		u.assembler.Cancel()
	case "/bye", "/quit", "/exit":
		u.quitApp()
	case "/debug":
		u.toggleDebugConsole()
	case "/gallery":
		u.showPanel("Model gallery", formatGallery(catalog.Models()))
	case "/tools":
		u.showPanel("Tools", formatTools(catalog.Tools(catalog.ToolQuery{Q: arg})))
	case "/history":
		sessions, err := catalog.History(catalog.HistoryQuery{Q: arg})
		if err != nil {
			u.showPanel("History", err.Error())
			return
		}
		u.showPanel("History", formatHistory(sessions))
	case "/workflow":
		nodes, _ := catalog.Graph()
		events := catalog.Events(catalog.EventQuery{Q: arg})
		u.showPanel("Workflow", formatWorkflow(catalog.Runs(), nodes, events))
	case "/models":
		go func() {
			models, err := u.relay.ListModels(u.ctx)
			text := formatModels(models)
			if err != nil {
				u.localLogger.Error("Failed to list models: ", err)
				text = "Could not reach the relay."
			}
			u.app.QueueUpdateDraw(func() { u.showPanel("Installed models", text) })
		}()
	default:
		u.showPanel("Unknown command", tview.Escape(cmd)+" is not a command. Try /help.")
	}
}

func createModal(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}

// showPanel opens a scrollable modal; Esc or Enter closes it.
func (u *UI) showPanel(title, text string) {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetText(text)
	view.SetTitle(title + " (Esc to close)").SetBorder(true)
	view.SetDoneFunc(func(key tcell.Key) {
		u.pages.RemovePage(panelPage)
		u.app.SetFocus(u.textArea)
	})

	u.pages.AddPage(panelPage, createModal(view, 80, 24), true, true)
	u.app.SetFocus(view)
}

func (u *UI) toggleDebugConsole() {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.debugShown {
		u.mainFlex.RemoveItem(u.debugConsole)
	} else {
		u.mainFlex.AddItem(u.debugConsole, 0, 1, false)
	}
	u.debugShown = !u.debugShown
}

func (u *UI) quitApp() {
	u.assembler.Cancel()
	u.localLogger.Info("Shutting down gracefully.")
	u.app.Stop()
}
