package voice

import (
	"crypto/md5"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	"dramaflow/internal/script"
	"dramaflow/internal/tts"
)

// UnresolvedVoiceError 音色池/默认值都无法解析出音色。
// 调用方必须按"跳过合成"处理，禁止悄悄落到任意默认音色上。
type UnresolvedVoiceError struct {
	Character string
	Backend   tts.Backend
	Language  string
}

func (e *UnresolvedVoiceError) Error() string {
	return fmt.Sprintf("no voice resolvable for character %q on %s backend (language %s)",
		e.Character, e.Backend, e.Language)
}

// Assign 为 (角色, 性别, 后端, 语种) 解析一个命名空间音色 ID。
//
//   - openai：固定每性别默认音色，不走池
//   - azure：固定每语种默认音色，不走池
//   - google / elevenlabs：对角色名做稳定哈希，在候选池内取模选择。
//     同名角色在池配置不变的前提下永远得到同一音色，
//     与片段顺序、进程重启、并发执行无关。不保证不同角色不撞音色。
func (p *Pools) Assign(character string, gender script.Gender, backend tts.Backend, language string) (string, error) {
	if gender != script.Male && gender != script.Female {
		gender = script.Male
	}

	switch backend {
	case tts.BackendOpenAI:
		if v, ok := p.OpenAIDefaults[gender]; ok {
			return Namespaced(backend, v), nil
		}

	case tts.BackendAzure:
		if v, ok := p.AzureDefaults[language]; ok {
			return Namespaced(backend, v), nil
		}
		// 语种无默认值时回退基准语种
		if v, ok := p.AzureDefaults[DefaultLanguage]; ok {
			logrus.Warnf("voice: no azure default for language %q, falling back to %q", language, DefaultLanguage)
			return Namespaced(backend, v), nil
		}

	case tts.BackendGoogle:
		pool := p.googlePoolFor(language, gender)
		if len(pool) > 0 {
			return Namespaced(backend, pool[hashIndex(character, len(pool))]), nil
		}
		// 池为空但配了默认音色时退回默认值
		if v, ok := p.googleDefaultFor(language, gender); ok {
			return Namespaced(backend, v), nil
		}

	case tts.BackendElevenLabs:
		pool := p.ElevenPool[gender]
		if len(pool) == 0 {
			pool = p.ElevenPool[script.Male]
		}
		if len(pool) > 0 {
			return Namespaced(backend, pool[hashIndex(character, len(pool))]), nil
		}
		if v, ok := p.ElevenDefaults[gender]; ok {
			return Namespaced(backend, v), nil
		}
	}

	return "", &UnresolvedVoiceError{Character: character, Backend: backend, Language: language}
}

// googlePoolFor 解析标准后端的候选池。
// 请求语种没有池时回退基准语种——这是显式的降级策略：
// 不支持的语种会用基准语种的音色朗读，降级发生时记 warn 日志。
func (p *Pools) googlePoolFor(language string, gender script.Gender) []string {
	langPool, ok := p.GooglePool[language]
	if !ok {
		logrus.Warnf("voice: no google pool for language %q, falling back to %q", language, DefaultLanguage)
		langPool, ok = p.GooglePool[DefaultLanguage]
		if !ok {
			return nil
		}
	}
	pool := langPool[gender]
	if len(pool) == 0 {
		pool = langPool[script.Male]
	}
	return pool
}

// googleDefaultFor 标准后端的每语种/性别默认音色，同样回退基准语种
func (p *Pools) googleDefaultFor(language string, gender script.Gender) (string, bool) {
	langDefaults, ok := p.GoogleDefaults[language]
	if !ok {
		langDefaults, ok = p.GoogleDefaults[DefaultLanguage]
		if !ok {
			return "", false
		}
	}
	v, ok := langDefaults[gender]
	return v, ok
}

// hashIndex 把角色名哈希成 [0, n) 的稳定索引。
// md5 摘要按大端整数取模，与语种、运行无关。
func hashIndex(character string, n int) int {
	sum := md5.Sum([]byte(character))
	var v big.Int
	v.SetBytes(sum[:])
	return int(v.Mod(&v, big.NewInt(int64(n))).Int64())
}
