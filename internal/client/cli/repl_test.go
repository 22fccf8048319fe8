package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	arg   string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Use(ctx context.Context, category string) error {
	f.calls = append(f.calls, "use")
	f.arg = category
	return nil
}
func (f *fakeExec) List(ctx context.Context) error { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) Page(ctx context.Context, n string) error {
	f.calls = append(f.calls, "page")
	f.arg = n
	return nil
}
func (f *fakeExec) Next(ctx context.Context) error { f.calls = append(f.calls, "next"); return nil }
func (f *fakeExec) Prev(ctx context.Context) error { f.calls = append(f.calls, "prev"); return nil }
func (f *fakeExec) Search(ctx context.Context, query string) error {
	f.calls = append(f.calls, "search")
	f.arg = query
	return nil
}
func (f *fakeExec) Select(ctx context.Context, id string) error {
	f.calls = append(f.calls, "select")
	f.arg = id
	return nil
}
func (f *fakeExec) SelectAll(ctx context.Context) error {
	f.calls = append(f.calls, "selectall")
	return nil
}
func (f *fakeExec) Add(ctx context.Context) error { f.calls = append(f.calls, "add"); return nil }
func (f *fakeExec) Edit(ctx context.Context, id string) error {
	f.calls = append(f.calls, "edit")
	f.arg = id
	return nil
}
func (f *fakeExec) Delete(ctx context.Context) error {
	f.calls = append(f.calls, "delete")
	return nil
}
func (f *fakeExec) Compose(ctx context.Context) error {
	f.calls = append(f.calls, "compose")
	return nil
}
func (f *fakeExec) Templates(ctx context.Context) error {
	f.calls = append(f.calls, "templates")
	return nil
}
func (f *fakeExec) NewTemplate(ctx context.Context) error {
	f.calls = append(f.calls, "newtemplate")
	return nil
}
func (f *fakeExec) Drafts(ctx context.Context) error {
	f.calls = append(f.calls, "drafts")
	return nil
}
func (f *fakeExec) Browse(ctx context.Context) error {
	f.calls = append(f.calls, "browse")
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"use student",
		"list",
		"page 2",
		"next",
		"select u1",
		"selectall",
		"delete",
		"compose",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "use", "list", "page", "next", "select", "selectall", "delete", "compose"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	// commands missing their required argument dispatch nothing
	input := strings.NewReader("use\npage\nselect\nedit\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_SearchPassesArgument(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("search ada lovelace\nexit\n")
	exec := &fakeExec{loggedIn: true}

	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	if exec.arg != "ada lovelace" {
		t.Fatalf("search arg = %q", exec.arg)
	}
}
