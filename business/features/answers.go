package features

import "refrescobot/domain"

type Slot int

const (
	SlotConsumption Slot = iota
	SlotActivity
	SlotSweetness
	SlotMood
	SlotTimeOfDay
	SlotAdventure
	SlotHealth

	// derived from the slots above
	SlotHealthScore
	SlotEnergyNeed

	AnswerDim = int(SlotEnergyNeed) + 1
)

// Neutral is the ordinal value of a slot nobody answered.
const Neutral = 2

// question category -> ordinal scale (index is the encoded value)
var ordinalScales = map[string]struct {
	slot   Slot
	values []string
}{
	"consumo_base":         {SlotConsumption, []string{"nunca", "ocasional", "semanal", "frecuente", "diario"}},
	"fisico":               {SlotActivity, []string{"inactivo", "sedentario", "moderado", "activo", "muy_activo"}},
	"preferencias_dulzura": {SlotSweetness, []string{"natural", "poco_dulce", "equilibrado", "dulce_moderado", "muy_dulce"}},
	"estado_animo":         {SlotMood, []string{"tranquilo", "relajado", "equilibrado", "ocupado", "estresante"}},
	"temporal":             {SlotTimeOfDay, []string{"noche", "tarde", "almuerzo", "media_manana", "manana"}},
	"aventurero":           {SlotAdventure, []string{"muy_conservador", "conservador", "moderado", "aventurero", "muy_aventurero"}},
	"salud_importancia":    {SlotHealth, []string{"no_importa", "poco_importante", "moderado", "importante", "muy_importante"}},
}

type slotValue struct {
	slot  Slot
	value int
}

// semantic tokens that are unambiguous regardless of the question
var tokenSlots = map[string]slotValue{
	"no_consume_refrescos":  {SlotConsumption, 0},
	"rechaza_refrescos":     {SlotConsumption, 0},
	"prefiere_alternativas": {SlotConsumption, 1},
	"consume_ocasional":     {SlotConsumption, 2},
	"consume_frecuente":     {SlotConsumption, 3},
	"ama_refrescos":         {SlotConsumption, 4},

	"trabajo_sedentario": {SlotActivity, 1},
	"actividad_relajada": {SlotActivity, 1},
	"actividad_moderada": {SlotActivity, 3},
	"actividad_intensa":  {SlotActivity, 4},
	"ejercicio_deporte":  {SlotActivity, 4},

	"cero_azucar_natural": {SlotSweetness, 0},
	"solo_natural":        {SlotSweetness, 0},
	"solo_agua":           {SlotSweetness, 0},
	"bebidas_naturales":   {SlotSweetness, 0},
	"experiencia_placer":  {SlotSweetness, 3},

	"experiencia_relajacion": {SlotMood, 0},
	"cafeina_positiva":       {SlotMood, 4},
	"experiencia_energia":    {SlotMood, 4},

	"refrescos_tradicionales": {SlotAdventure, 1},

	"salud_no_importa":             {SlotHealth, 0},
	"prioridad_sabor":              {SlotHealth, 1},
	"prioridad_salud":              {SlotHealth, 4},
	"evita_salud":                  {SlotHealth, 4},
	"salud_azucar_calorias":        {SlotHealth, 4},
	"salud_ingredientes_naturales": {SlotHealth, 4},
	"salud_sin_aditivos":           {SlotHealth, 4},
	"salud_vitaminas_minerales":    {SlotHealth, 4},
}

// AnswerVector holds one ordinal value per slot plus which slots were
// actually answered.
type AnswerVector struct {
	Values [AnswerDim]float64
	Known  [AnswerDim]bool
}

func (a AnswerVector) Level(s Slot) int { return int(a.Values[s]) }

func (a AnswerVector) Has(s Slot) bool { return a.Known[s] }

// Is reports whether slot s was answered with exactly level.
func (a AnswerVector) Is(s Slot, level int) bool { return a.Known[s] && int(a.Values[s]) == level }

// AtLeast reports whether slot s was answered with level or more.
func (a AnswerVector) AtLeast(s Slot, level int) bool { return a.Known[s] && int(a.Values[s]) >= level }

// AtMost reports whether slot s was answered with level or less.
func (a AnswerVector) AtMost(s Slot, level int) bool { return a.Known[s] && int(a.Values[s]) <= level }

// ExtractAnswers encodes an answer set. Unknown tokens are ignored and leave
// their slot neutral; the first answer to reach a slot wins.
func ExtractAnswers(answers []domain.QuizAnswer) AnswerVector {
	var av AnswerVector
	for i := range av.Values {
		av.Values[i] = Neutral
	}

	set := func(s Slot, v int) {
		if av.Known[s] {
			return
		}
		av.Values[s] = float64(v)
		av.Known[s] = true
	}

	for _, a := range answers {
		if scale, ok := ordinalScales[a.Category]; ok {
			if idx := indexOf(scale.values, a.ValueToken); idx >= 0 {
				set(scale.slot, idx)
				continue
			}
		}
		if sv, ok := tokenSlots[a.ValueToken]; ok {
			set(sv.slot, sv.value)
		}
	}

	health := 0
	if av.AtLeast(SlotActivity, 3) {
		health += 2
	}
	if av.Is(SlotSweetness, 0) {
		health += 2
	}
	av.Values[SlotHealthScore] = float64(health)
	av.Known[SlotHealthScore] = health > 0

	switch {
	case av.AtLeast(SlotMood, 3):
		set(SlotEnergyNeed, 4)
	case av.Is(SlotMood, 0):
		set(SlotEnergyNeed, 1)
	}

	return av
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}
