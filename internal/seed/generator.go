package seed

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Player profile cases. Most generated players are solid squad members; a
// few are elite prospects or raw youngsters so the rankings spread out.
const (
	caseSquadPlayer  = 0
	caseElite        = 1
	caseRawProspect  = 2
	caseJourneyman   = 3
	profileCaseCount = 4
)

const randomIntDivisor = 1_000_000

var (
	firstNames = []string{
		"Ana", "Bram", "Carlos", "Diego", "Emre", "Felipe", "Giulia", "Hugo",
		"Ivan", "Jonas", "Kofi", "Luka", "Mateo", "Nadia", "Oscar", "Pavel",
		"Quentin", "Rafael", "Sofia", "Thiago", "Yusuf", "Zlatko",
	}
	lastNames = []string{
		"Almeida", "Bakker", "Costa", "Dubois", "Eriksen", "Fernandes",
		"Gruber", "Hansen", "Ivanov", "Janssen", "Kovac", "Lindberg",
		"Martins", "Novak", "Oliveira", "Petrov", "Rossi", "Silva",
		"Takac", "Ullmann", "Vargas", "Weber",
	}
	clubs = []string{
		"Atlético Norte", "Sparta Oost", "Dynamo Kraj", "Union Valverde",
		"FC Hafen", "Rapid Solano", "Academica Velha", "Eleven Bridges",
	}
	nationalities = []string{
		"Brazilian", "Dutch", "German", "Portuguese", "Croatian", "Danish",
		"Spanish", "French", "Nigerian", "Japanese",
	}
	positions = []string{"goalkeeper", "defender", "midfielder", "forward"}
	feet      = []string{"left", "right", "both"}
	events    = []string{"goal", "assist", "shot", "dribble", "tackle", "save"}
)

// randomInt returns a uniform random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// randomFloat returns a random float64 between 0.0 and 1.0.
func randomFloat() float64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(randomIntDivisor))
	return float64(v.Int64()) / float64(randomIntDivisor)
}

func pick(options []string) string {
	return options[randomInt(len(options))]
}

// attributeRange describes the band one profile draws its ratings from.
type attributeRange struct {
	min, span int
}

func (r attributeRange) draw() int {
	return r.min + randomInt(r.span+1)
}

// playerPayload is the request body for POST /api/players.
type playerPayload struct {
	Name          string         `json:"name"`
	Club          string         `json:"club"`
	Nationality   string         `json:"nationality"`
	Position      string         `json:"position"`
	PreferredFoot string         `json:"preferred_foot"`
	Age           int            `json:"age"`
	HeightCM      int            `json:"height_cm"`
	WeightKG      int            `json:"weight_kg"`
	Goals         int            `json:"goals"`
	Assists       int            `json:"assists"`
	AverageRating float64        `json:"average_rating"`
	PassAccuracy  float64        `json:"pass_accuracy"`
	Potential     int            `json:"potential"`
	Attributes    map[string]int `json:"attributes"`
}

// generatePlayer creates one player with profile-shaped attributes. The
// index keeps names unique across a run.
func generatePlayer(index int) playerPayload {
	var (
		attrs     attributeRange
		age       int
		potential int
	)
	switch randomInt(profileCaseCount) {
	case caseElite:
		attrs = attributeRange{min: 75, span: 20}
		age = 21 + randomInt(7)
		potential = 85 + randomInt(15)
	case caseRawProspect:
		attrs = attributeRange{min: 40, span: 25}
		age = 16 + randomInt(4)
		potential = 70 + randomInt(25)
	case caseJourneyman:
		attrs = attributeRange{min: 45, span: 20}
		age = 29 + randomInt(7)
		potential = 45 + randomInt(20)
	default: // caseSquadPlayer
		attrs = attributeRange{min: 55, span: 25}
		age = 20 + randomInt(10)
		potential = 60 + randomInt(25)
	}

	attributes := map[string]int{}
	for _, key := range []string{
		"passing", "dribbling", "shooting", "first_touch", "crossing",
		"pace", "stamina", "strength", "agility", "jumping",
		"vision", "positioning", "composure", "work_rate", "decisions",
	} {
		attributes[key] = attrs.draw()
	}

	return playerPayload{
		Name:          fmt.Sprintf("%s %s %d", pick(firstNames), pick(lastNames), index),
		Club:          pick(clubs),
		Nationality:   pick(nationalities),
		Position:      pick(positions),
		PreferredFoot: pick(feet),
		Age:           age,
		HeightCM:      165 + randomInt(31),
		WeightKG:      60 + randomInt(31),
		Goals:         randomInt(30),
		Assists:       randomInt(20),
		AverageRating: 5.0 + randomFloat()*4.0,
		PassAccuracy:  55.0 + randomFloat()*40.0,
		Potential:     potential,
		Attributes:    attributes,
	}
}
