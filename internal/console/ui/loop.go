package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-mailroom/mailroom/internal/console/route"
	"github.com/go-mailroom/mailroom/internal/console/state"
)

/**
 * @time: 2025/6/25
 * @file: loop.go
 * @description: 把工作流的 dispatch / navigate / 通知封送回
 *               Update 循环。状态只在单线程上变更。
 */

// dispatchMsg carries store messages produced off the Update goroutine.
type dispatchMsg struct {
	msgs []state.Message
}

// navigateMsg carries a navigation produced off the Update goroutine.
type navigateMsg struct {
	name   string
	params route.Params
}

// noticeMsg is a transient notification for the status bar.
type noticeMsg struct {
	text  string
	isErr bool
}

// Loop adapts the workflow collaborators onto a Bubble Tea program. Calls
// before SetSender are buffered and flushed once the program is running.
type Loop struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending []tea.Msg
}

// NewLoop builds an unattached loop.
func NewLoop() *Loop {
	return &Loop{}
}

// SetSender attaches the running program and flushes buffered messages.
func (l *Loop) SetSender(send func(tea.Msg)) {
	l.mu.Lock()
	l.send = send
	buf := l.pending
	l.pending = nil
	l.mu.Unlock()
	for _, m := range buf {
		send(m)
	}
}

func (l *Loop) post(m tea.Msg) {
	l.mu.Lock()
	if l.send == nil {
		l.pending = append(l.pending, m)
		l.mu.Unlock()
		return
	}
	send := l.send
	l.mu.Unlock()
	send(m)
}

// Dispatch satisfies state.Dispatcher.
func (l *Loop) Dispatch(msgs ...state.Message) {
	l.post(dispatchMsg{msgs: msgs})
}

// Navigate satisfies route.Navigator.
func (l *Loop) Navigate(name string, params route.Params) {
	l.post(navigateMsg{name: name, params: params})
}

// Info satisfies workflow.Notifier.
func (l *Loop) Info(msg string) {
	l.post(noticeMsg{text: msg})
}

// Error satisfies workflow.Notifier.
func (l *Loop) Error(msg string) {
	l.post(noticeMsg{text: msg, isErr: true})
}
