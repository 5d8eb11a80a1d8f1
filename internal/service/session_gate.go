package service

import (
	"fmt"
	"net/url"
	"strings"
)

// GateDecision es el resultado de evaluar una request contra las rutas protegidas.
type GateDecision struct {
	Allow      bool
	RedirectTo string
}

// SessionGate decide si una ruta requiere sesion. No guarda estado entre llamadas.
type SessionGate struct {
	prefixes   []string
	signInPath string
}

// NewSessionGate valida la configuracion al arrancar: prefijos absolutos y una ruta de
// login local que no este protegida.
func NewSessionGate(prefixes []string, signInPath string) (*SessionGate, error) {
	g := &SessionGate{}
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		p = strings.TrimRight(p, "/")
		if p == "" {
			return nil, fmt.Errorf("session gate: protecting %q would cover every path", "/")
		}
		g.prefixes = append(g.prefixes, p)
	}
	if len(g.prefixes) == 0 {
		return nil, fmt.Errorf("session gate: no protected prefixes configured")
	}

	signInPath = strings.TrimSpace(signInPath)
	if !strings.HasPrefix(signInPath, "/") || strings.HasPrefix(signInPath, "//") || strings.Contains(signInPath, "?") {
		return nil, fmt.Errorf("session gate: sign-in path %q must be a local path", signInPath)
	}
	g.signInPath = signInPath
	if g.IsProtected(signInPath) {
		return nil, fmt.Errorf("session gate: sign-in path %q is itself protected", signInPath)
	}
	return g, nil
}

// IsProtected indica si path coincide con un prefijo o cuelga de el.
func (g *SessionGate) IsProtected(path string) bool {
	for _, p := range g.prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Evaluate deja pasar la request o redirige al login con la ruta original en "redirect".
// Solo se refleja la ruta de la request, nunca un destino aportado por el cliente.
func (g *SessionGate) Evaluate(path string, hasSession bool) GateDecision {
	if hasSession || !g.IsProtected(path) {
		return GateDecision{Allow: true}
	}
	q := url.Values{}
	q.Set("redirect", path)
	return GateDecision{RedirectTo: g.signInPath + "?" + q.Encode()}
}
