package assistant

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Prompt is printed before every read.
const Prompt = "What would you like to order or ask (or type 'quit' to exit)? "

// State is the session's position in its two-state lifecycle.
type State int

const (
	AwaitingInput State = iota
	Terminated
)

func (s State) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "awaiting_input"
}

// IsQuit reports whether line asks to end the session.
func IsQuit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "quit")
}

// Session is the interactive read-answer-print loop over one Assistant.
type Session struct {
	assistant *Assistant
	in        *bufio.Reader
	out       io.Writer
	errOut    io.Writer
	logger    *zap.Logger
	state     State
}

// NewSession reads queries from in, writes replies to out and per-query
// failures to errOut.
func NewSession(a *Assistant, in io.Reader, out, errOut io.Writer) *Session {
	return &Session{
		assistant: a,
		in:        bufio.NewReader(in),
		out:       out,
		errOut:    errOut,
		logger:    a.logger,
		state:     AwaitingInput,
	}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Run loops until the user types quit, input ends, or ctx is done. Query
// failures are reported and the loop continues; only I/O errors and context
// cancellation are returned.
func (s *Session) Run(ctx context.Context) error {
	defer func() { s.state = Terminated }()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprint(s.out, Prompt); err != nil {
			return err
		}
		line, err := s.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if IsQuit(line) {
			return nil
		}
		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		if err := s.handle(ctx, query); err != nil {
			return err
		}
	}
}

// readLine returns the next input line without its terminator. Lines have no
// length limit. A final line without a newline is returned before io.EOF.
func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Session) handle(ctx context.Context, query string) error {
	ans, err := s.assistant.Answer(ctx, query)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.report(query, err)
	}
	_, werr := fmt.Fprintln(s.out, OneLine(ans.Reply))
	return werr
}

// OneLine folds a multi-line reply onto one line.
func OneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' }), " ")
}

func (s *Session) report(query string, err error) {
	var errs []error
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	} else {
		errs = []error{err}
	}
	for _, e := range errs {
		s.logger.Error("query failed",
			zap.String("query", query),
			zap.String("kind", string(KindOf(e))),
			zap.Error(e))
		var ae *Error
		if errors.As(e, &ae) {
			fmt.Fprintf(s.errOut, "Error (%s): %v\n", ae.Kind, ae.Err)
			continue
		}
		fmt.Fprintf(s.errOut, "Error: %v\n", e)
	}
}
