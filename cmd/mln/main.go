// Command mln grounds a weighted first-order knowledge base into a Markov
// Random Field and optionally runs MAP inference or weight learning over it.
//
// The rules file carries domain declarations and weighted clauses:
//
//	domain person = Anna, Bob, Chris
//
//	1.5   !Smokes(x:person) v Cancer(x:person)
//	hard  !Friends(x:person,y:person) v !Smokes(x:person) v Smokes(y:person)
//
// Terms of the form name:domain are variables; bare identifiers are
// constants. The evidence and truth files hold one ground atom per line,
// prefixed with '!' for false, with '#' comments.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/statrel/mln/pkg/mln"
	"github.com/statrel/mln/pkg/mln/config"
	"github.com/statrel/mln/pkg/mln/kb"
	"github.com/statrel/mln/pkg/mln/logic"
)

func main() {
	var (
		configPath   = flag.String("config", "", "path to YAML config (optional)")
		rulesPath    = flag.String("rules", "", "path to rules file (required)")
		evidencePath = flag.String("evidence", "", "path to evidence file (overrides config)")
		truthPath    = flag.String("truth", "", "path to labeled atoms for training")
		mode         = flag.String("mode", "ground", "ground | infer | train")
		debug        = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	if *rulesPath == "" {
		log.Fatal("missing -rules")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	cfg.Debug = cfg.Debug || *debug
	if *evidencePath != "" {
		cfg.EvidencePath = *evidencePath
	}

	ctx := context.Background()
	if err := run(ctx, cfg, *rulesPath, *truthPath, *mode); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config, rulesPath, truthPath, mode string) error {
	loader := config.Loader{Config: cfg}
	comp, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	defer comp.Logger.Sync()

	engine := mln.New(mln.Options{
		WeightHard:      cfg.WeightHard,
		QueryPredicates: comp.QueryPreds,
		Solver:          comp.Solver,
		Trainer:         comp.Trainer,
		Store:           comp.Store,
		Logger:          comp.Logger,
	})
	defer engine.Close()

	rules, err := parseRulesFile(rulesPath)
	if err != nil {
		return fmt.Errorf("rules %s: %w", rulesPath, err)
	}
	for name, symbols := range rules.domains {
		engine.Domains().InsertAll(name, symbols)
	}
	for _, f := range rules.formulas {
		if _, err := engine.AddFormula(f); err != nil {
			return fmt.Errorf("rules %s: %w", rulesPath, err)
		}
	}

	if cfg.EvidencePath != "" {
		if err := loadAtoms(ctx, cfg.EvidencePath, engine.AddEvidence); err != nil {
			return fmt.Errorf("evidence %s: %w", cfg.EvidencePath, err)
		}
	} else if err := engine.LoadEvidence(ctx); err != nil {
		return err
	}

	net, err := engine.Ground(ctx)
	if err != nil {
		return err
	}
	qStart, qEnd := net.QueryAtomRange()
	fmt.Printf("network %s: %d atoms (%d query), %d constraints, max clause width %d\n",
		net.BuildID(), net.NumAtoms(), qEnd-qStart+1, net.NumConstraints(), net.MaxClauseWidth())

	switch mode {
	case "ground":
		return nil
	case "infer":
		result, err := engine.Infer(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("MAP cost %g after %d flips\n", result.Cost, result.Flips)
		for id := qStart; id <= qEnd; id++ {
			if result.True(id) {
				fmt.Println(net.FetchAtom(id).Text)
			}
		}
		return nil
	case "train":
		if truthPath == "" {
			return fmt.Errorf("mode train requires -truth")
		}
		truth := make(map[string]bool)
		collect := func(ctx context.Context, atom logic.Atom, v bool) error {
			truth[atom.String()] = v
			return nil
		}
		if err := loadAtoms(ctx, truthPath, collect); err != nil {
			return fmt.Errorf("truth %s: %w", truthPath, err)
		}
		weights, err := engine.Train(ctx, truth)
		if err != nil {
			return err
		}
		for i, w := range weights {
			fmt.Printf("formula %d: %g\n", i, w)
		}
		return nil
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// loadAtoms reads one ground atom per line ('!' prefix for false) and
// feeds each into sink.
func loadAtoms(ctx context.Context, path string, sink func(context.Context, logic.Atom, bool) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		truth := true
		if strings.HasPrefix(line, "!") {
			truth = false
			line = strings.TrimSpace(line[1:])
		}
		atom, err := logic.ParseAtom(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := sink(ctx, atom, truth); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}

// ruleFile is the parsed content of a rules file.
type ruleFile struct {
	domains  map[string][]string
	formulas []kb.Formula
}

func parseRulesFile(path string) (*ruleFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rf := &ruleFile{domains: make(map[string][]string)}
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "domain ") {
			if err := parseDomainDecl(rf, strings.TrimPrefix(line, "domain ")); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			continue
		}
		formula, err := parseFormula(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		rf.formulas = append(rf.formulas, formula)
	}
	return rf, scanner.Err()
}

// parseDomainDecl parses "name = s1, s2, ..." after the domain keyword.
func parseDomainDecl(rf *ruleFile, decl string) error {
	name, list, ok := strings.Cut(decl, "=")
	if !ok {
		return fmt.Errorf("domain declaration needs '='")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty domain name")
	}
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			rf.domains[name] = append(rf.domains[name], s)
		}
	}
	return nil
}

// parseFormula parses "weight lit v lit v ..." where weight is a float or
// the keyword "hard".
func parseFormula(line string) (kb.Formula, error) {
	head, rest, ok := strings.Cut(line, " ")
	if !ok {
		return kb.Formula{}, fmt.Errorf("formula needs a weight and a clause")
	}
	var f kb.Formula
	if head == "hard" {
		f.Hard = true
	} else {
		w, err := strconv.ParseFloat(head, 64)
		if err != nil {
			return kb.Formula{}, fmt.Errorf("weight %q: %v", head, err)
		}
		// negative source weights normalize to an inverted formula
		if w < 0 {
			f.Inverted = true
			w = -w
		}
		f.Weight = w
	}
	for _, part := range strings.Split(rest, " v ") {
		lit, err := parseLiteral(strings.TrimSpace(part))
		if err != nil {
			return kb.Formula{}, err
		}
		f.Clause = append(f.Clause, lit)
	}
	return f, nil
}

func parseLiteral(s string) (kb.Literal, error) {
	neg := false
	if strings.HasPrefix(s, "!") {
		neg = true
		s = strings.TrimSpace(s[1:])
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		atom, err := logic.NewAtom(s)
		if err != nil {
			return kb.Literal{}, err
		}
		return kb.Literal{Atom: atom, Negated: neg}, nil
	}
	if !strings.HasSuffix(s, ")") {
		return kb.Literal{}, fmt.Errorf("literal %q: missing ')'", s)
	}
	pred := s[:open]
	var terms []logic.Term
	for _, arg := range strings.Split(s[open+1:len(s)-1], ",") {
		arg = strings.TrimSpace(arg)
		if name, dom, isVar := strings.Cut(arg, ":"); isVar {
			terms = append(terms, logic.Variable{Name: name, Domain: dom})
		} else {
			terms = append(terms, logic.Constant{Symbol: arg})
		}
	}
	atom, err := logic.NewAtom(pred, terms...)
	if err != nil {
		return kb.Literal{}, err
	}
	return kb.Literal{Atom: atom, Negated: neg}, nil
}
