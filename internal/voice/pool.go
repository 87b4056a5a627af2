package voice

import (
	"dramaflow/internal/script"
	"dramaflow/internal/tts"
)

// 预定义音色库。
// 池内顺序是确定性分配的一部分：同一池配置下，
// 索引 0..N-1 在进程重启后必须保持稳定，不要随意重排。

// Pools 按后端组织的音色配置
type Pools struct {
	// AzureDefaults 配额后端每语种一个固定音色，不做池选择
	AzureDefaults map[string]string
	// GoogleDefaults 标准后端每语种/性别的默认音色
	GoogleDefaults map[string]map[script.Gender]string
	// GooglePool 标准后端的候选池：语种 -> 性别 -> 有序候选
	GooglePool map[string]map[script.Gender][]string
	// OpenAIDefaults 高质量后端每性别一个固定音色
	OpenAIDefaults map[script.Gender]string
	// ElevenDefaults 表现力后端每性别的默认音色
	ElevenDefaults map[script.Gender]string
	// ElevenPool 表现力后端的候选池：性别 -> 有序候选
	ElevenPool map[script.Gender][]string
}

// DefaultLanguage 请求语种没有对应池时回退到的基准语种
const DefaultLanguage = "en"

// DefaultPools 内置音色配置
var DefaultPools = &Pools{
	AzureDefaults: map[string]string{
		"en": "en-US-BrianNeural",
		"zh": "zh-CN-YunxiNeural",
	},
	GoogleDefaults: map[string]map[script.Gender]string{
		"en": {
			script.Male:   "en-US-Neural2-J",
			script.Female: "en-US-Neural2-F",
		},
		"zh": {
			script.Male:   "cmn-CN-Wavenet-C",
			script.Female: "cmn-CN-Wavenet-A",
		},
	},
	GooglePool: map[string]map[script.Gender][]string{
		"zh": {
			script.Female: {
				"cmn-CN-Wavenet-A", "cmn-CN-Wavenet-D",
				"cmn-TW-Wavenet-A",
			},
			script.Male: {
				"cmn-CN-Wavenet-C", "cmn-CN-Wavenet-B",
				"cmn-TW-Wavenet-B", "cmn-TW-Wavenet-C",
			},
		},
		"en": {
			script.Female: {
				"en-US-Neural2-C", "en-US-Neural2-E", "en-US-Neural2-F", "en-US-Neural2-G", "en-US-Neural2-H",
				"en-US-Wavenet-C", "en-US-Wavenet-E", "en-US-Wavenet-F", "en-GB-Neural2-A", "en-GB-Neural2-C",
			},
			script.Male: {
				"en-US-Neural2-A", "en-US-Neural2-D", "en-US-Neural2-I", "en-US-Neural2-J",
				"en-US-Wavenet-A", "en-US-Wavenet-B", "en-US-Wavenet-D", "en-GB-Neural2-B", "en-GB-Neural2-D",
			},
		},
	},
	OpenAIDefaults: map[script.Gender]string{
		script.Male:   "onyx",
		script.Female: "alloy",
	},
	ElevenDefaults: map[script.Gender]string{
		script.Male:   "pNInz6obpgDQGcFmaJgB", // Adam
		script.Female: "21m00Tcm4TlvDq8ikWAM", // Rachel
	},
	ElevenPool: map[script.Gender][]string{
		script.Male: {
			"pNInz6obpgDQGcFmaJgB", // Adam
			"ErXwobaYiN019PkySvjV", // Antoni
			"VR6AewLTigWG4xSOukaG", // Arnold
			"N2lVS1w4EtoT3dr4eOWO", // Callum
			"IKne3meq5aSn9XLyUdCD", // Charlie
			"2EiwWnXFnvU5JabPnv8n", // Clyde
			"CYw3kZ02Hs0563khs1Fj", // Dave
			"D38z5RcWu1voky8WS1ja", // Fin
			"JBFqnCBsd6RMkjVDRZzb", // George
			"TxGEqnHWrfWFTfGW9XjX", // Josh
			"ODq5zmih8GrVes37Dizd", // Patrick
			"yoZ06aMxZJJ28mfd3POQ", // Sam
			"GBv7mTt0atIp3Br8iCZE", // Thomas
		},
		script.Female: {
			"21m00Tcm4TlvDq8ikWAM", // Rachel
			"EXAVITQu4vr4xnSDxMaL", // Bella
			"XB0fDUnXU5powFXDhCwa", // Charlotte
			"AZnzlk1XvdvUeBnXmlld", // Domi
			"ThT5KcBeYPX3keUQqHPh", // Dorothy
			"MF3mGyEYCl7XYWbV9V6O", // Elli
			"LcfcDJNUP1GQjkzn1xUU", // Emily
			"jsCqWAovK2LkecY7zXl4", // Freya
			"jBpfuIE2acCO8z3wKNLl", // Gigi
			"z9fAnlkpzviPz146aGWa", // Glinda
			"oWAxZDx7w5VEj9dCyTzz", // Grace
			"cgSgspJ2msm6clMCkdW9", // Jessica
			"pFZP5JQG7iQjIQuC4Bku", // Lily
			"XrExE9yKIg1WjnnlVkGX", // Matilda
			"piTKgcLEGmPE4e6mEKli", // Nicole
		},
	},
}

// Namespaced 拼出 "<backend>:<voice>" 形式的命名空间 ID
func Namespaced(backend tts.Backend, raw string) string {
	return string(backend) + ":" + raw
}
