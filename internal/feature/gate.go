// AngelaMos | 2026
// gate.go

package feature

import (
	"fmt"
	"html/template"
	"io"
)

type Outcome uint8

const (
	OutcomeNothing Outcome = iota
	OutcomeChildren
	OutcomeFallback
	OutcomeLoginPrompt
	OutcomeComingSoon
	OutcomeBeta
)

func (o Outcome) String() string {
	switch o {
	case OutcomeChildren:
		return "children"
	case OutcomeFallback:
		return "fallback"
	case OutcomeLoginPrompt:
		return "login_prompt"
	case OutcomeComingSoon:
		return "coming_soon"
	case OutcomeBeta:
		return "beta"
	default:
		return "nothing"
	}
}

// Gate decides what a gated slot shows. It holds no state beyond the
// caller's display options.
type Gate struct {
	Fallback        template.HTML
	ShowLoginPrompt bool
	ShowComingSoon  bool
	ShowBeta        bool
}

func (g Gate) hasFallback() bool {
	return g.Fallback != ""
}

func (g Gate) Decide(v Verdict) Outcome {
	if v.Enabled {
		return OutcomeChildren
	}

	if g.hasFallback() {
		return OutcomeFallback
	}

	if g.ShowLoginPrompt && v.Reason == ReasonAuthRequired {
		return OutcomeLoginPrompt
	}

	if v.Config != nil {
		if g.ShowComingSoon && v.Config.ComingSoon {
			return OutcomeComingSoon
		}
		if g.ShowBeta && v.Config.Beta {
			return OutcomeBeta
		}
	}

	return OutcomeNothing
}

var fragments = template.Must(template.New("gate").Parse(`
{{- define "login_prompt" -}}
<div class="feature-gate feature-gate--login" data-feature="{{.Key}}"><a href="{{.LoginPath}}">Sign in to use {{.Name}}</a></div>
{{- end -}}
{{- define "coming_soon" -}}
<span class="feature-badge feature-badge--coming-soon" data-feature="{{.Key}}">Coming soon</span>
{{- end -}}
{{- define "beta" -}}
<span class="feature-badge feature-badge--beta" data-feature="{{.Key}}">Beta</span>
{{- end -}}
`))

const LoginPath = "/login"

type fragmentData struct {
	Key       string
	Name      string
	LoginPath string
}

// Render writes the fragment chosen by Decide. children and the fallback are
// trusted markup and written as-is.
func (g Gate) Render(w io.Writer, v Verdict, children template.HTML) (Outcome, error) {
	outcome := g.Decide(v)

	var err error
	switch outcome {
	case OutcomeChildren:
		_, err = io.WriteString(w, string(children))
	case OutcomeFallback:
		_, err = io.WriteString(w, string(g.Fallback))
	case OutcomeLoginPrompt, OutcomeComingSoon, OutcomeBeta:
		data := fragmentData{LoginPath: LoginPath}
		if v.Config != nil {
			data.Key = v.Config.Key.String()
			data.Name = v.Config.Name
		}
		err = fragments.ExecuteTemplate(w, outcome.String(), data)
	case OutcomeNothing:
	}

	if err != nil {
		return outcome, fmt.Errorf("render gate %s: %w", outcome, err)
	}
	return outcome, nil
}
