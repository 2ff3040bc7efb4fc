// Package assistant runs the conversational collaborator: it sends the
// conversation plus a snapshot of the document's table to a chat model,
// streams the reply back, and installs the last table proposed in it.
package assistant

import (
	"context"
	"log"
	"strings"
	"sync"

	"gosheet/domain/core"
	"gosheet/internal/bridge"
	"gosheet/internal/document"
	"gosheet/internal/errors"
	"gosheet/internal/tablediff"
	"gosheet/ports"

	"golang.org/x/sync/semaphore"
)

// NetworkErrorPrefix starts the text appended to a reply whose stream failed
const NetworkErrorPrefix = "\n[network error]: "

// DefaultMaxHistory caps the user and assistant turns kept per document
const DefaultMaxHistory = 40

// Config tunes an Assistant
type Config struct {
	MaxConcurrent int64
	MaxHistory    int
}

// Assistant keeps per-document conversations and at most one running task per document
type Assistant struct {
	client ports.ChatClient
	docs   *document.Service
	events ports.EventPublisher
	sem    *semaphore.Weighted

	maxHistory int

	mu      sync.Mutex
	history map[core.DocumentID][]ports.ChatMessage
	running map[core.DocumentID]*Task
}

// New creates an assistant. A nil client leaves the assistant disabled:
// Send reports Unavailable.
func New(client ports.ChatClient, docs *document.Service, events ports.EventPublisher, cfg Config) *Assistant {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultMaxHistory
	}
	return &Assistant{
		client:     client,
		docs:       docs,
		events:     events,
		sem:        semaphore.NewWeighted(cfg.MaxConcurrent),
		maxHistory: cfg.MaxHistory,
		history:    make(map[core.DocumentID][]ports.ChatMessage),
		running:    make(map[core.DocumentID]*Task),
	}
}

// Enabled reports whether a chat client is configured
func (a *Assistant) Enabled() bool {
	return a.client != nil
}

// Send starts a reply to message about the document. onDelta receives the
// reply text as it streams and may be nil. The returned task finishes once
// the reply is complete and any proposed table has been installed.
func (a *Assistant) Send(ctx context.Context, id core.DocumentID, message string, onDelta func(string)) (*Task, error) {
	if !a.Enabled() {
		return nil, errors.Unavailable("assistant is not configured")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.InvalidInput("message is empty")
	}

	doc, err := a.docs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	if _, busy := a.running[id]; busy {
		a.mu.Unlock()
		return nil, errors.Conflict("a reply is already in progress for this document")
	}
	a.history[id] = append(a.history[id], ports.ChatMessage{Role: ports.RoleUser, Content: message})
	messages := make([]ports.ChatMessage, 0, len(a.history[id])+1)
	messages = append(messages, ports.ChatMessage{Role: ports.RoleSystem, Content: SystemPrompt(doc.Table)})
	messages = append(messages, a.history[id]...)

	task := newTask(ctx, id, onDelta)
	a.running[id] = task
	a.mu.Unlock()

	go a.run(task, messages)
	return task, nil
}

func (a *Assistant) run(task *Task, messages []ports.ChatMessage) {
	defer close(task.done)
	defer func() {
		a.mu.Lock()
		delete(a.running, task.DocumentID)
		a.mu.Unlock()
	}()
	defer task.cancel()

	if err := a.sem.Acquire(task.ctx, 1); err != nil {
		task.stopped()
		task.finish(nil, err)
		a.recordTurn(task.DocumentID, "")
		return
	}
	defer a.sem.Release(1)

	full, err := a.client.StreamChat(task.ctx, messages, task.emit)
	if task.stopped() {
		log.Printf("[Assistant] Task %s cancelled, reply discarded", task.ID)
		a.recordTurn(task.DocumentID, task.Text())
		task.finish(nil, context.Canceled)
		return
	}
	if err != nil {
		log.Printf("[Assistant] Stream for document %s failed: %v", task.DocumentID, err)
		task.emit(NetworkErrorPrefix + err.Error())
		text := task.Text()
		a.recordTurn(task.DocumentID, text)
		task.finish(&Reply{Text: text, Conversational: text, HTML: RenderHTML(text)}, err)
		return
	}

	reply := a.complete(task, full)
	a.recordTurn(task.DocumentID, full)
	a.publish(task, reply)
	task.finish(reply, nil)
}

// complete extracts and installs the proposal of a finished reply
func (a *Assistant) complete(task *Task, full string) *Reply {
	conversational := bridge.StripFencedBlocks(full)
	reply := &Reply{
		Text:           full,
		Conversational: conversational,
		HTML:           RenderHTML(full),
	}

	proposal, found, err := bridge.ExtractProposal(full)
	if !found {
		return reply
	}
	reply.Proposal = true
	if err != nil {
		log.Printf("[Assistant] Proposed table for document %s is not valid XML: %v", task.DocumentID, err)
		return reply
	}
	if task.stopped() {
		return reply
	}

	// installed on a fresh context: the request context may already be done
	_, changes, err := a.docs.Apply(context.Background(), task.DocumentID, proposal)
	if err != nil {
		log.Printf("[Assistant] Failed to install proposed table for document %s: %v", task.DocumentID, err)
		return reply
	}
	reply.Applied = true
	reply.Changes = &changes
	return reply
}

func (a *Assistant) recordTurn(id core.DocumentID, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	turns := append(a.history[id], ports.ChatMessage{Role: ports.RoleAssistant, Content: text})
	if len(turns) > a.maxHistory {
		turns = append([]ports.ChatMessage(nil), turns[len(turns)-a.maxHistory:]...)
	}
	a.history[id] = turns
}

func (a *Assistant) publish(task *Task, reply *Reply) {
	if a.events == nil {
		return
	}
	a.events.Publish(ports.DocumentEvent{
		DocumentID: task.DocumentID,
		EventType:  ports.EventAssistantReply,
		Data: map[string]interface{}{
			"task_id":  task.ID.String(),
			"proposal": reply.Proposal,
			"applied":  reply.Applied,
		},
	})
}

// Cancel stops the running task of a document, if any
func (a *Assistant) Cancel(id core.DocumentID) bool {
	a.mu.Lock()
	task, ok := a.running[id]
	a.mu.Unlock()
	if ok {
		task.Cancel()
	}
	return ok
}

// Running returns the in-flight task of a document
func (a *Assistant) Running(id core.DocumentID) (*Task, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	task, ok := a.running[id]
	return task, ok
}

// History returns a copy of the conversation kept for a document
func (a *Assistant) History(id core.DocumentID) []ports.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ports.ChatMessage{}, a.history[id]...)
}

// Forget drops the conversation of a document
func (a *Assistant) Forget(id core.DocumentID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.history, id)
}

// Reply is the outcome of a finished task
type Reply struct {
	Text           string `json:"text"`
	Conversational string `json:"conversational"`
	HTML           string `json:"html"`
	Proposal       bool   `json:"proposal"`
	Applied        bool   `json:"applied"`

	// Changes counts the rows added and removed by an applied proposal
	Changes *tablediff.Stats `json:"changes,omitempty"`
}
