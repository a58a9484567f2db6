package usecase

const summaryPrompt = `You are a procurement analyst. Read the tender document below and reply with a single JSON object
and nothing else. Use exactly these keys, each with a short plain-text string value:
"briefDescription", "value", "sourceOfFunds", "experienceCriteria", "financialCriteria",
"timeDuration", "specialRequirements".
Write "Not specified" for anything the document does not state.

Tender document:
%s`

const coverLetterPrompt = `Write a formal cover letter for a bid on the tender below on behalf of the company described.
Address the requirements stated in the tender, keep it under 400 words and return only the letter text.

Company profile:
%s

Tender document:
%s`

const releaseLetterPrompt = `Write a formal letter releasing the tender documents for "%s" to %s, on behalf of the company
described below. Keep it brief and return only the letter text.

Company profile:
%s`

const chatPrompt = `Answer the question using only the tender document below. If the document does not contain the
answer, say so. Be concise.

Tender document:
%s

Question: %s`
