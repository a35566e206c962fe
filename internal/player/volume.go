package player

import "math"

// silentVolume значение effects.Volume, которое на слух равно тишине
const silentVolume = -10

// levelToVolume переводит линейный уровень 0..1 в шкалу beep с основанием 2:
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> тишина
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return silentVolume
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}

// SetVolume задает громкость сессии. Уровень ограничивается диапазоном [0, 1].
func (s *beepSession) SetVolume(level float64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.level = clampLevel(level)
	s.applyVolume()
}

// SetMute включает или выключает звук, не меняя сохраненный уровень
func (s *beepSession) SetMute(muted bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.muted = muted
	s.applyVolume()
}

// Volume возвращает текущий уровень громкости
func (s *beepSession) Volume() float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.level
}

// Muted возвращает true, если звук выключен
func (s *beepSession) Muted() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.muted
}

// applyVolume должен вызываться под s.mutex
func (s *beepSession) applyVolume() {
	if s.volume == nil {
		// Уровень применится, когда трек загрузится
		return
	}
	s.engine.lockSpeaker()
	s.volume.Volume = levelToVolume(s.level)
	s.volume.Silent = s.muted || s.level <= 0
	s.engine.unlockSpeaker()
}
