package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rivo/tview"
)

type Types int

const (
	Info Types = iota
	Error
	Warn
	Fatal
)

type Message struct {
	Timestamp time.Time
	Tag       string
	Message   string
	LogTypes  Types
}

// manager owns the shared sinks. Every Logger handed out by NewLogger
// points at the same manager so tags can differ while output is shared.
type manager struct {
	mu      sync.RWMutex
	view    *tview.TextView
	dev     bool
	logFile *os.File
	logChan chan Message
	done    chan struct{}
	closed  sync.Once
}

type Logger struct {
	tag string
}

var (
	logManager = &manager{}
	once       sync.Once
)

// InitLogger configures the process-wide sinks. Only the first call has any
// effect. view may be nil when no debug console exists (serve mode).
func InitLogger(dev bool, logPath string, view *tview.TextView) {
	once.Do(func() {
		m, err := newManager(dev, logPath, view)
		if err != nil {
			log.Fatalf("Failed to open log file: %s", err)
		}
		logManager = m
	})
}

func newManager(dev bool, logPath string, view *tview.TextView) (*manager, error) {
	m := &manager{view: view, dev: dev}
	if logPath == "" {
		return m, nil
	}

	timestamp := time.Now().Format("20060102_150405")
	fileName := fmt.Sprintf("saturday_log_%s.log", timestamp)
	file, err := os.OpenFile(filepath.Join(logPath, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	m.logFile = file
	m.logChan = make(chan Message, 100)
	m.done = make(chan struct{})
	go m.processLogs()
	return m, nil
}

// NewLogger returns a logger for the given component tag. It is safe to call
// before InitLogger; the shared sinks are looked up on every write.
func NewLogger(tag string) *Logger {
	return &Logger{tag: tag}
}

// With returns a logger whose tag is suffixed, e.g. with a request id.
func (l *Logger) With(suffix string) *Logger {
	return &Logger{tag: l.tag + " " + suffix}
}

func (m *manager) processLogs() {
	defer close(m.done)
	for msg := range m.logChan {
		timestamp := msg.Timestamp.Format("2006-01-02 15:04:05")
		line := fmt.Sprintf("%s [%s] %s: %s\n", timestamp, msg.Tag, msg.LogTypes.toString(), msg.Message)
		m.logFile.WriteString(line)
	}
}

func (l *Logger) log(logTypes Types, v ...interface{}) {
	m := logManager
	message := fmt.Sprint(v...)

	m.mu.RLock()
	view, dev := m.view, m.dev
	m.mu.RUnlock()

	if dev {
		if view != nil {
			var format string
			switch logTypes {
			case Info:
				format = "[green]DEBUG (%s): %s[-]\n"
			case Warn:
				format = "[yellow]DEBUG (%s): %s[-]\n"
			default:
				format = "[red]DEBUG (%s): %s[-]\n"
			}
			fmt.Fprintf(view, format, l.tag, tview.Escape(message))
		} else {
			log.Printf("[%s] %s: %s", l.tag, logTypes.toString(), message)
		}
	}

	if m.logChan != nil {
		m.send(Message{
			Timestamp: time.Now(),
			Tag:       l.tag,
			Message:   message,
			LogTypes:  logTypes,
		})
	}
}

// send drops the message once the sink is closed instead of panicking.
func (m *manager) send(msg Message) {
	defer func() { _ = recover() }()
	m.logChan <- msg
}

func (l *Logger) Info(v ...interface{}) {
	l.log(Info, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.log(Error, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.log(Warn, v...)
}

func (l *Logger) Fatal(v ...interface{}) {
	l.log(Fatal, v...)
	logManager.close()
	os.Exit(1)
}

// Close flushes queued lines to the log file and closes it.
func (l *Logger) Close() {
	logManager.close()
}

// Close flushes the process-wide logger.
func Close() {
	logManager.close()
}

func (m *manager) close() {
	m.closed.Do(func() {
		if m.logChan == nil {
			return
		}
		close(m.logChan)
		<-m.done
		m.logFile.Close()
	})
}

func (t Types) toString() string {
	switch t {
	case Info:
		return "INFO"
	case Error:
		return "ERROR"
	case Warn:
		return "WARN"
	case Fatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}
