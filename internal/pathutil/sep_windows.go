package pathutil

const backslashIsSeparator = true
