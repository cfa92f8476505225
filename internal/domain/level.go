package domain

// Level представляет уровень игры участника
type Level string

// Уровни игры
const (
	LevelCasual       Level = "CASUAL"
	LevelBeginner     Level = "BEGINNER"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

// PowerModel сопоставляет уровню игры его силу
type PowerModel map[Level]int

// DefaultPowerModel возвращает стандартные веса уровней
func DefaultPowerModel() PowerModel {
	return PowerModel{
		LevelCasual:       50,
		LevelBeginner:     60,
		LevelIntermediate: 80,
		LevelAdvanced:     90,
	}
}

// Power возвращает силу уровня; неизвестный или пустой уровень считается CASUAL
func (pm PowerModel) Power(level Level) int {
	if p, ok := pm[level]; ok {
		return p
	}
	if p, ok := pm[LevelCasual]; ok {
		return p
	}
	return DefaultPowerModel()[LevelCasual]
}
