package app

import (
    "bufio"
    "context"
    "fmt"
    "io"
    "strings"

    "github.com/charmbracelet/lipgloss"
)

const rule = "========================================"

type menuStyles struct {
    title  lipgloss.Style
    option lipgloss.Style
    warn   lipgloss.Style
    faint  lipgloss.Style
}

func newMenuStyles(out io.Writer) menuStyles {
    r := lipgloss.NewRenderer(out)
    return menuStyles{
        title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
        option: r.NewStyle().Foreground(lipgloss.Color("10")),
        warn:   r.NewStyle().Foreground(lipgloss.Color("9")),
        faint:  r.NewStyle().Faint(true),
    }
}

// RunInteractive shows the numbered menu on out until the user picks 0, in
// reaches EOF or ctx is cancelled. Results are written with WriteResult using
// the configured report mode.
func (a *App) RunInteractive(ctx context.Context, in io.Reader, out, diag io.Writer) error {
    st := newMenuStyles(out)
    lines, scanErr := readLines(ctx, in)

    bye := func() error {
        fmt.Fprintln(out, st.faint.Render("Bye."))
        return nil
    }
    // end handles a prompt that got no line: cancellation or EOF.
    end := func() error {
        fmt.Fprintln(out)
        if ctx.Err() != nil {
            return bye()
        }
        return *scanErr
    }
    prompt := func(label string) (string, bool) {
        fmt.Fprint(out, label)
        select {
        case <-ctx.Done():
            return "", false
        case line, ok := <-lines:
            return strings.TrimSpace(line), ok
        }
    }

    for {
        if ctx.Err() != nil {
            return bye()
        }
        a.printMenu(out, st)
        choice, ok := prompt("Choice: ")
        if !ok {
            return end()
        }

        var deep bool
        switch choice {
        case "0":
            return bye()
        case "1":
        case "2":
            deep = true
        default:
            fmt.Fprintln(out, st.warn.Render("[!] Invalid choice: "+choice))
            continue
        }

        query, ok := prompt("Search query: ")
        if !ok {
            return end()
        }
        if query == "" {
            fmt.Fprintln(out, st.warn.Render("[!] Empty query"))
            continue
        }

        res := a.Search(ctx, query, deep || a.cfg.Analyze)
        if err := WriteResult(out, diag, res, a.cfg.Report); err != nil {
            return err
        }
    }
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. The channel closes at EOF or once ctx is done; the returned
// error is valid after that. A read still blocked on in when ctx ends is
// abandoned with the process.
func readLines(ctx context.Context, in io.Reader) (<-chan string, *error) {
    lines := make(chan string)
    var scanErr error
    go func() {
        defer close(lines)
        sc := bufio.NewScanner(in)
        for sc.Scan() {
            select {
            case lines <- sc.Text():
            case <-ctx.Done():
                return
            }
        }
        scanErr = sc.Err()
    }()
    return lines, &scanErr
}

func (a *App) printMenu(out io.Writer, st menuStyles) {
    proxy := a.cfg.Proxy
    if strings.TrimSpace(proxy) == "" {
        proxy = "direct"
    }
    fmt.Fprintln(out, rule)
    fmt.Fprintln(out, st.title.Render("  Grok X Search"))
    fmt.Fprintln(out, rule)
    fmt.Fprintln(out, st.faint.Render("Model: "+a.cfg.Model+"  Proxy: "+proxy))
    fmt.Fprintln(out, st.option.Render("1.")+" Quick search")
    fmt.Fprintln(out, st.option.Render("2.")+" Deep analysis")
    fmt.Fprintln(out, st.option.Render("0.")+" Exit")
    fmt.Fprintln(out, rule)
}
