package voice

// voiceLabels 音色 ID -> 展示名，用于角色表元数据
var voiceLabels = map[string]string{
	// azure
	"en-US-BrianNeural": "Brian (Narrator)",
	"zh-CN-YunxiNeural": "Yunxi (Narrator)",

	// google 英文
	"en-US-Neural2-A": "Steven (Classic)",
	"en-US-Neural2-C": "Sarah (Bright)",
	"en-US-Neural2-D": "Robert (Deep)",
	"en-US-Neural2-E": "Emily (Soft)",
	"en-US-Neural2-F": "Jennifer (Warm)",
	"en-US-Neural2-G": "Female G (Neural2)",
	"en-US-Neural2-H": "Helen (Mature)",
	"en-US-Neural2-I": "David (Strong)",
	"en-US-Neural2-J": "Michael (Energetic)",
	"en-US-Wavenet-A": "James (Standard)",
	"en-US-Wavenet-B": "John (Formal)",
	"en-US-Wavenet-C": "Mary (Sweet)",
	"en-US-Wavenet-D": "William (Deep)",
	"en-US-Wavenet-E": "Patricia (Soft)",
	"en-US-Wavenet-F": "Linda (Warm)",
	"en-GB-Neural2-A": "Female A (UK Neural2)",
	"en-GB-Neural2-B": "Male B (UK Neural2)",
	"en-GB-Neural2-C": "Female C (UK Neural2)",
	"en-GB-Neural2-D": "Male D (UK Neural2)",

	// google 中文
	"cmn-CN-Wavenet-A": "小燕 (甜美)",
	"cmn-CN-Wavenet-B": "云扬 (播音)",
	"cmn-CN-Wavenet-C": "云希 (故事)",
	"cmn-CN-Wavenet-D": "晓晓 (亲切)",
	"cmn-TW-Wavenet-A": "Female A (TW Wavenet)",
	"cmn-TW-Wavenet-B": "Male B (TW Wavenet)",
	"cmn-TW-Wavenet-C": "Male C (TW Wavenet)",

	// openai
	"onyx":    "Onyx (Deep Male)",
	"alloy":   "Alloy (Clear Female)",
	"echo":    "Echo (Narrator)",
	"fable":   "Fable (Expressive)",
	"nova":    "Nova (Energetic)",
	"shimmer": "Shimmer (Soft)",

	// elevenlabs
	"pNInz6obpgDQGcFmaJgB": "Adam (Deep)",
	"21m00Tcm4TlvDq8ikWAM": "Rachel (Warm)",
	"ErXwobaYiN019PkySvjV": "Antoni (Young)",
	"VR6AewLTigWG4xSOukaG": "Arnold (Strong)",
	"N2lVS1w4EtoT3dr4eOWO": "Callum (Calm)",
	"IKne3meq5aSn9XLyUdCD": "Charlie (Friendly)",
	"2EiwWnXFnvU5JabPnv8n": "Clyde (Warm)",
	"CYw3kZ02Hs0563khs1Fj": "Dave (Young UK)",
	"D38z5RcWu1voky8WS1ja": "Fin (Irish)",
	"JBFqnCBsd6RMkjVDRZzb": "George (Formal UK)",
	"TxGEqnHWrfWFTfGW9XjX": "Josh (News)",
	"ODq5zmih8GrVes37Dizd": "Patrick (Authoritative)",
	"yoZ06aMxZJJ28mfd3POQ": "Sam (Lively)",
	"GBv7mTt0atIp3Br8iCZE": "Thomas (Gentle)",
	"EXAVITQu4vr4xnSDxMaL": "Bella (Soft)",
	"XB0fDUnXU5powFXDhCwa": "Charlotte (Elegant)",
	"AZnzlk1XvdvUeBnXmlld": "Domi (Energetic)",
	"ThT5KcBeYPX3keUQqHPh": "Dorothy (Wise)",
	"MF3mGyEYCl7XYWbV9V6O": "Elli (Lively)",
	"LcfcDJNUP1GQjkzn1xUU": "Emily (Calm)",
	"jsCqWAovK2LkecY7zXl4": "Freya (Young US)",
	"jBpfuIE2acCO8z3wKNLl": "Gigi (Enthusiastic)",
	"z9fAnlkpzviPz146aGWa": "Glinda (Mysterious)",
	"oWAxZDx7w5VEj9dCyTzz": "Grace (Southern)",
	"cgSgspJ2msm6clMCkdW9": "Jessica (Professional)",
	"pFZP5JQG7iQjIQuC4Bku": "Lily (Young UK)",
	"XrExE9yKIg1WjnnlVkGX": "Matilda (Narrative)",
	"piTKgcLEGmPE4e6mEKli": "Nicole (Energetic)",
}

// Label 返回音色的人类可读名称，没有映射时回退到原始 ID
func Label(voiceID string) string {
	if name, ok := voiceLabels[voiceID]; ok {
		return name
	}
	return voiceID
}
