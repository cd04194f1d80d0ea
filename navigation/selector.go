package navigation

// ChoosePlanner maps one query plus the world snapshot to a planner
//
// Pure function of its inputs, first match wins; the order is a contract —
// agents' perceived path quality depends on it:
//  1. ManyAgentsToSameGoal hint → flow field
//  2. HighDynamics hint → uniform cost
//  3. Very large map → graph search
//  4. NoGoodHeuristic hint → uniform cost
//  5. Fallback preference: graph search, uniform cost, flow field
//
// Returns nil when no planner is registered; the caller falls back to the
// external navigation service
func ChoosePlanner(query *PathQuery, world WorldState, planners []Planner) Planner {
	if query.Hints.Has(HintManyAgentsToSameGoal) {
		if p := plannerOfKind(planners, KindFlowField); p != nil {
			return p
		}
	}
	if query.Hints.Has(HintHighDynamics) {
		if p := plannerOfKind(planners, KindUniformCost); p != nil {
			return p
		}
	}
	if world.MapIsVeryLarge {
		if p := plannerOfKind(planners, KindGraphSearch); p != nil {
			return p
		}
	}
	if query.Hints.Has(HintNoGoodHeuristic) {
		if p := plannerOfKind(planners, KindUniformCost); p != nil {
			return p
		}
	}

	for _, kind := range [...]PlannerKind{KindGraphSearch, KindUniformCost, KindFlowField} {
		if p := plannerOfKind(planners, kind); p != nil {
			return p
		}
	}
	return nil
}

func plannerOfKind(planners []Planner, kind PlannerKind) Planner {
	for _, p := range planners {
		if p.Kind() == kind {
			return p
		}
	}
	return nil
}
