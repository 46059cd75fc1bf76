// Package main runs an arena battle from a scenario file, driving every
// creature with the configured turn policies.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hale/internal/config"
	"github.com/cory-johannsen/hale/internal/game/ability"
	"github.com/cory-johannsen/hale/internal/game/ai"
	"github.com/cory-johannsen/hale/internal/game/arena"
	"github.com/cory-johannsen/hale/internal/game/dice"
	"github.com/cory-johannsen/hale/internal/game/summon"
	"github.com/cory-johannsen/hale/internal/observability"
	"github.com/cory-johannsen/hale/internal/scripting"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	scenarioPath := flag.String("scenario", "content/scenarios/skirmish.yaml", "path to scenario YAML file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := run(ctx, cfg, *scenarioPath, logger)
	if err != nil {
		logger.Fatal("arena run failed", zap.Error(err))
	}
	if res.Winner == "" {
		fmt.Printf("no winner after %d rounds\n", res.Rounds)
		return
	}
	fmt.Printf("%s wins after %d rounds\n", res.Winner, res.Rounds)
	for _, c := range res.Survivors {
		fmt.Printf("  %-16s %3d/%-3d hp\n", c.Name(), c.CurrentHP(), c.MaxHP())
	}
}

// run loads every content source named by cfg and plays the scenario.
func run(ctx context.Context, cfg config.Config, scenarioPath string, logger *zap.Logger) (arena.Result, error) {
	start := time.Now()

	var src dice.Source
	if cfg.Arena.Seed != 0 {
		src = dice.NewSeededSource(cfg.Arena.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	scripts := scripting.NewManager(roller, logger)
	if err := scripts.Load(cfg.Scripting.ScriptDir, cfg.Scripting.InstructionLimit); err != nil {
		return arena.Result{}, fmt.Errorf("loading scripts: %w", err)
	}
	defer scripts.Close()

	defs, err := ability.LoadDirectory(cfg.Content.AbilitiesDir)
	if err != nil {
		return arena.Result{}, err
	}
	abilities, err := ability.BuildRegistry(defs, scripts)
	if err != nil {
		return arena.Result{}, fmt.Errorf("building abilities: %w", err)
	}
	logger.Info("loaded abilities", zap.Int("count", len(abilities.All())))

	table := summon.DefaultTable()
	if cfg.Content.SummonsFile != "" {
		if table, err = summon.LoadTable(cfg.Content.SummonsFile); err != nil {
			return arena.Result{}, err
		}
	}

	templates, err := arena.LoadTemplates(cfg.Content.CreaturesDir)
	if err != nil {
		return arena.Result{}, err
	}
	scenario, err := arena.LoadScenario(scenarioPath)
	if err != nil {
		return arena.Result{}, err
	}

	battleLog := observability.ForBattle(logger, scenario.Name, cfg.Arena.Seed)
	a, err := arena.New(scenario, templates, abilities, arena.Options{
		ActionPoints: cfg.Arena.ActionPoints,
		MoveCost:     cfg.Arena.MoveCost,
		AttackCost:   cfg.Arena.AttackCost,
		SummonPolicy: cfg.Arena.SummonPolicy,
		Roller:       roller,
		Logger:       battleLog,
	})
	if err != nil {
		return arena.Result{}, err
	}
	a.UseSummonSpell(summon.NewSpell(a, table, summon.NewDiceFailureChecker(roller, battleLog), battleLog))
	bindScripts(scripts, a)

	policies, err := buildPolicies(cfg, scripts, battleLog)
	if err != nil {
		return arena.Result{}, err
	}
	logger.Info("arena ready",
		zap.String("scenario", scenario.Name),
		zap.Strings("policies", policies.Names()),
		zap.Duration("elapsed", time.Since(start)),
	)

	res, err := a.Run(ctx, policies, cfg.Arena.MaxRounds)
	if err != nil {
		return res, err
	}
	battleLog.Info("battle over", zap.String("winner", res.Winner), zap.Int("rounds", res.Rounds))
	return res, nil
}

// buildPolicies registers one planner policy per HTN domain, then the
// standard policy over the configured fallback.
func buildPolicies(cfg config.Config, scripts *scripting.Manager, logger *zap.Logger) (*ai.Registry, error) {
	reg := ai.NewRegistry()
	domains, err := ai.LoadDomains(cfg.Content.DomainsDir)
	if err != nil {
		return nil, err
	}
	for _, d := range domains {
		named := logger.Named(d.ID)
		p := ai.NewBasicPolicy(ai.NewPlanner(d, scripts, named), named)
		if err := reg.Register(d.ID, p); err != nil {
			return nil, err
		}
	}
	fallback, ok := reg.PolicyFor(cfg.AI.Fallback)
	if !ok {
		return nil, fmt.Errorf("ai.fallback %q is not a registered policy (have %v)", cfg.AI.Fallback, reg.Names())
	}
	standard := ai.NewStandardPolicy(ai.StandardOptions{
		Fallback:        fallback,
		HealThreshold:   cfg.AI.HealThreshold,
		ActivationDelay: cfg.AI.PostActivationDelay,
		Logger:          logger.Named("standard"),
	})
	if err := reg.Register("standard", standard); err != nil {
		return nil, err
	}
	return reg, nil
}

// bindScripts exposes arena creatures to engine.creature.* in Lua.
func bindScripts(scripts *scripting.Manager, a *arena.Arena) {
	info := func(c *arena.Creature, distance int) *scripting.CreatureInfo {
		return &scripting.CreatureInfo{
			UID:         c.ID(),
			Name:        c.Name(),
			HP:          c.CurrentHP(),
			MaxHP:       c.MaxHP(),
			CasterLevel: c.CasterLevel(),
			Distance:    distance,
		}
	}
	scripts.GetCreature = func(uid string) *scripting.CreatureInfo {
		c := a.CreatureByID(uid)
		if c == nil {
			return nil
		}
		return info(c, 0)
	}
	scripts.ListRelated = func(uid string, hostile bool) []*scripting.CreatureInfo {
		viewer := a.CreatureByID(uid)
		if viewer == nil {
			return nil
		}
		related := a.Related(uid, hostile)
		out := make([]*scripting.CreatureInfo, len(related))
		for i, c := range related {
			out[i] = info(c, a.Distance(viewer, c.Position()))
		}
		return out
	}
}
